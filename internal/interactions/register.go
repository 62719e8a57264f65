package interactions

import "github.com/user/autothread/internal/types"

// Register wires the thread controls into r.
func Register(r *Router, editor *TitleEditor, archiver *Archiver) {
	r.Component(types.EditPrefix, editor.OpenModal)
	r.Component(types.ArchivePrefix, archiver.Archive)
	r.Modal(types.EditModalID, editor.AcceptSubmission)
}
