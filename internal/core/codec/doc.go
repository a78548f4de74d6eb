// Package codec converts token records to and from their wire form.
//
// A token travels as an envelope, bea_<tag>_<blob>. The tag names the token
// kind; the blob is an HS256 JWT whose claims carry the record:
//
//	sub   token id            type  kind name
//	iss   issuer              env   environment
//	iat   issued at (s)       aid   agent id (optional)
//	exp   expires at (s)      uid   user id (optional)
//	meta  metadata map (omitted when empty)
//
// All codecs are stateless after construction and safe for concurrent use.
package codec
