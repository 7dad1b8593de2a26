package model

import (
	"time"
)

const (
	FileTypeFolder = "folder"
	FileTypeFile   = "file"
	FileTypeImage  = "image"
)

// RootParentID is the sentinel clients use for files attached directly
// to the root of a user's tree.
const RootParentID = "0"

type File struct {
	ID        string
	UserID    string
	Name      string
	Type      string
	IsPublic  bool
	ParentID  string // RootParentID or the id of a folder-type File
	LocalPath string // empty for folders, set once at creation otherwise
	CreatedAt time.Time
}

func (f *File) IsFolder() bool {
	return f.Type == FileTypeFolder
}

func ValidFileType(t string) bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	}
	return false
}
