package models

import "fmt"

// TargetKind identifies the kind of entity a reaction or comment attaches to.
type TargetKind string

const (
	TargetPost TargetKind = "POST"
	TargetFile TargetKind = "FILE"
)

// Target identifies a reactable/commentable entity by (id, kind).
type Target struct {
	ID   uint
	Kind TargetKind
}

// PostTarget returns the target for a post id.
func PostTarget(id uint) Target { return Target{ID: id, Kind: TargetPost} }

// FileTarget returns the target for an attachment. Attachments use string
// (UUID) identifiers on the wire; reactions key them through the numeric
// surrogate id assigned at upload time.
func FileTarget(id uint) Target { return Target{ID: id, Kind: TargetFile} }

func (t Target) String() string {
	return fmt.Sprintf("%s/%d", t.Kind, t.ID)
}
