package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/beabot/beatoken/internal/core/domain"
)

const timeLayout = time.RFC3339

// GeneratedToken is the result of token generation. Its JSON form is
// exactly {"environment": ..., "token": ...}.
type GeneratedToken struct {
	Environment string `json:"environment" yaml:"environment"`
	Token       string `json:"token" yaml:"token"`

	ID        string     `json:"-" yaml:"-"`
	Kind      string     `json:"-" yaml:"-"`
	ExpiresAt *time.Time `json:"-" yaml:"-"`
}

// NewGeneratedToken builds the generation result for an issued token.
func NewGeneratedToken(token string, rec *domain.Record) *GeneratedToken {
	return &GeneratedToken{
		Environment: rec.Environment,
		Token:       token,
		ID:          rec.ID,
		Kind:        string(rec.Kind),
		ExpiresAt:   rec.ExpiresAt,
	}
}

// Text implements Texter.
func (g *GeneratedToken) Text() string {
	return "Token: " + g.Token
}

// Table implements Tabler.
func (g *GeneratedToken) Table() *Table {
	t := &Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("ID", g.ID)
	t.AddRow("Kind", g.Kind)
	t.AddRow("Environment", g.Environment)
	t.AddRow("Expires", formatExpiry(g.ExpiresAt))
	t.AddRow("Token", g.Token)
	return t
}

// RecordView is a token record as shown to users.
type RecordView struct {
	ID          string            `json:"id" yaml:"id"`
	Kind        string            `json:"kind" yaml:"kind"`
	Environment string            `json:"environment" yaml:"environment"`
	AgentID     string            `json:"agent_id,omitempty" yaml:"agent_id,omitempty"`
	UserID      string            `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at" yaml:"created_at"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Status      string            `json:"status" yaml:"status"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Token statuses shown in views.
const (
	StatusValid   = "valid"
	StatusExpired = "expired"
)

// NewRecordView builds a view of rec as of now.
func NewRecordView(rec *domain.Record, now time.Time) *RecordView {
	status := StatusValid
	if rec.IsExpired(now) {
		status = StatusExpired
	}
	return &RecordView{
		ID:          rec.ID,
		Kind:        string(rec.Kind),
		Environment: rec.Environment,
		AgentID:     rec.AgentID,
		UserID:      rec.UserID,
		CreatedAt:   rec.CreatedAt,
		ExpiresAt:   rec.ExpiresAt,
		Status:      status,
		Metadata:    rec.Metadata,
	}
}

// Text implements Texter.
func (v *RecordView) Text() string {
	return fmt.Sprintf("%s %s %s %s", v.ID, v.Kind, v.Environment, v.Status)
}

// Table implements Tabler.
func (v *RecordView) Table() *Table {
	t := &Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("ID", v.ID)
	t.AddRow("Kind", v.Kind)
	t.AddRow("Environment", v.Environment)
	t.AddRow("Agent", dash(v.AgentID))
	t.AddRow("User", dash(v.UserID))
	t.AddRow("Created", v.CreatedAt.Format(timeLayout))
	t.AddRow("Expires", formatExpiry(v.ExpiresAt))
	t.AddRow("Status", StatusCell(v.Status))
	t.AddRow("Metadata", formatMetadata(v.Metadata))
	return t
}

// RecordList is a list of token records.
type RecordList []*RecordView

// NewRecordList builds views of recs as of now.
func NewRecordList(recs []*domain.Record, now time.Time) RecordList {
	out := make(RecordList, len(recs))
	for i, r := range recs {
		out[i] = NewRecordView(r, now)
	}
	return out
}

// Text implements Texter.
func (l RecordList) Text() string {
	lines := make([]string, len(l))
	for i, v := range l {
		lines[i] = v.Text()
	}
	return strings.Join(lines, "\n")
}

// Table implements Tabler.
func (l RecordList) Table() *Table {
	t := &Table{Headers: []string{"ID", "KIND", "ENVIRONMENT", "AGENT", "USER", "EXPIRES", "STATUS"}}
	for _, v := range l {
		t.AddRow(v.ID, v.Kind, v.Environment, dash(v.AgentID), dash(v.UserID), formatExpiry(v.ExpiresAt), StatusCell(v.Status))
	}
	return t
}

// DeploymentView is a deployment as shown to users.
type DeploymentView struct {
	*domain.Deployment
}

// Text implements Texter.
func (v DeploymentView) Text() string {
	line := fmt.Sprintf("%s %s %s %s", v.ID, v.AgentName, v.Status, v.Endpoint)
	if tok := v.Metadata[domain.MetadataToken]; tok != "" {
		line += "\nToken: " + tok
	}
	return line
}

// Table implements Tabler.
func (v DeploymentView) Table() *Table {
	t := &Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("ID", v.ID)
	t.AddRow("Agent", v.AgentName)
	t.AddRow("Environment", v.Environment)
	t.AddRow("Provider", string(v.Provider))
	t.AddRow("Region", v.Region)
	t.AddRow("Status", StatusCell(string(v.Status)))
	t.AddRow("Endpoint", v.Endpoint)
	t.AddRow("Token ID", dash(v.TokenID))
	if tok := v.Metadata[domain.MetadataToken]; tok != "" {
		t.AddRow("Token", tok)
	}
	t.AddRow("Created", v.CreatedAt.Format(timeLayout))
	return t
}

// DeploymentList is a list of deployments.
type DeploymentList []*domain.Deployment

// Text implements Texter.
func (l DeploymentList) Text() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = fmt.Sprintf("%s %s %s %s", d.ID, d.AgentName, d.Status, d.Endpoint)
	}
	return strings.Join(lines, "\n")
}

// Table implements Tabler. Tokens are not listed; see the single view.
func (l DeploymentList) Table() *Table {
	t := &Table{Headers: []string{"ID", "AGENT", "ENVIRONMENT", "PROVIDER", "REGION", "STATUS", "ENDPOINT"}}
	for _, d := range l {
		t.AddRow(d.ID, d.AgentName, d.Environment, string(d.Provider), d.Region, StatusCell(string(d.Status)), d.Endpoint)
	}
	return t
}

// StatusCell colours a token or deployment status.
func StatusCell(status string) string {
	switch status {
	case StatusValid, string(domain.DeploymentActive):
		return color.GreenString(status)
	case StatusExpired, string(domain.DeploymentFailed):
		return color.RedString(status)
	case string(domain.DeploymentPending), string(domain.DeploymentDeploying):
		return color.YellowString(status)
	case string(domain.DeploymentStopped):
		return color.New(color.Faint).Sprint(status)
	default:
		return status
	}
}

func formatExpiry(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(timeLayout)
}

func formatMetadata(m map[string]string) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + m[k]
	}
	return strings.Join(pairs, ", ")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RevokeResult reports revoked tokens.
type RevokeResult struct {
	Count int      `json:"count" yaml:"count"`
	IDs   []string `json:"ids,omitempty" yaml:"ids,omitempty"`
	Agent string   `json:"agent,omitempty" yaml:"agent,omitempty"`
}

// Text implements Texter.
func (r *RevokeResult) Text() string {
	noun := "tokens"
	if r.Count == 1 {
		noun = "token"
	}
	line := fmt.Sprintf("Revoked %d %s", r.Count, noun)
	if r.Agent != "" {
		line += " for agent " + r.Agent
	}
	if len(r.IDs) > 0 {
		line += ": " + strings.Join(r.IDs, ", ")
	}
	return line
}

// Table implements Tabler.
func (r *RevokeResult) Table() *Table {
	t := &Table{Headers: []string{"FIELD", "VALUE"}}
	if r.Agent != "" {
		t.AddRow("Agent", r.Agent)
	}
	t.AddRow("Revoked", fmt.Sprint(r.Count))
	for _, id := range r.IDs {
		t.AddRow("ID", id)
	}
	return t
}
