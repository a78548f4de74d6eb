package memory

// idSet is a set of token ids.
type idSet map[string]struct{}

// Index maps a secondary key (agent, user, environment) to the ids of the
// records carrying it.
//
// Index does no locking of its own: Store mutates and reads it only while
// holding its mutex, so the primary map and every index change together.
type Index struct {
	sets map[string]idSet
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{sets: make(map[string]idSet)}
}

// Add records id under key. Empty keys are not indexed.
func (i *Index) Add(key, id string) {
	if key == "" {
		return
	}
	set, ok := i.sets[key]
	if !ok {
		set = make(idSet)
		i.sets[key] = set
	}
	set[id] = struct{}{}
}

// Remove drops id from key, deleting the key once its set is empty.
func (i *Index) Remove(key, id string) {
	set, ok := i.sets[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(i.sets, key)
	}
}

// IDs returns the ids stored under key.
func (i *Index) IDs(key string) []string {
	set := i.sets[key]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
