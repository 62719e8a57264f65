// internal/types/ids.go
package types

import (
	"strings"

	"github.com/google/uuid"
)

type TaskID string

func NewTaskID() TaskID {
	return TaskID(uuid.New().String())
}

// Custom-id prefixes carried by the thread control buttons. The suffix after
// the first underscore is the id of the author the thread was opened for.
const (
	EditPrefix    = "edit_"
	ArchivePrefix = "archive_"

	// EditModalID is the fixed custom id of the title edit modal.
	EditModalID = "edit"
	// TitleFieldID is the custom id of the modal's single text input.
	TitleFieldID = "title"
)

func EditButtonID(authorID string) string {
	return EditPrefix + authorID
}

func ArchiveButtonID(authorID string) string {
	return ArchivePrefix + authorID
}

// AuthorFromCustomID returns the substring after the first underscore.
func AuthorFromCustomID(customID string) (string, bool) {
	_, after, found := strings.Cut(customID, "_")
	return after, found
}
