package drive

import (
	"time"

	drive "google.golang.org/api/drive/v3"

	"github.com/bpopineau/gspace/internal/gapi"
)

// FolderMimeType is the MIME type for Google Drive folders.
const FolderMimeType = "application/vnd.google-apps.folder"

// fileFields is the field mask requested for file metadata.
const fileFields = "id, name, mimeType, size, createdTime, modifiedTime, webViewLink, webContentLink, parents, owners, shared, trashed, trashedTime"

// FileInfo represents metadata about a file or folder in Google Drive.
type FileInfo struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	MimeType       string     `json:"mimeType"`
	Size           int64      `json:"size,omitempty"`
	CreatedTime    time.Time  `json:"createdTime"`
	ModifiedTime   time.Time  `json:"modifiedTime"`
	WebViewLink    string     `json:"webViewLink,omitempty"`
	WebContentLink string     `json:"webContentLink,omitempty"`
	Parents        []string   `json:"parents,omitempty"`
	Owners         []User     `json:"owners,omitempty"`
	Shared         bool       `json:"shared"`
	Trashed        bool       `json:"trashed"`
	TrashedTime    *time.Time `json:"trashedTime,omitempty"`
}

// IsFolder reports whether the file is a Drive folder.
func (f *FileInfo) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// User represents a Drive user (owner, permission holder).
type User struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Permission represents access permissions for a file.
type Permission struct {
	ID           string `json:"id"`
	Type         string `json:"type"` // user, group, domain, anyone
	Role         string `json:"role"` // owner, writer, commenter, reader, ...
	EmailAddress string `json:"emailAddress,omitempty"`
	Domain       string `json:"domain,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
}

// ListOptions contains options for listing files.
type ListOptions struct {
	// Query filters results using Drive's query language,
	// e.g. "name contains 'report'" or "mimeType='application/pdf'".
	Query string

	// MaxResults caps the number of files returned across pages.
	// Zero means no cap.
	MaxResults int

	// OrderBy specifies the sort order, e.g. "folder,modifiedTime desc".
	OrderBy string

	// IncludeTrashed includes trashed files in results.
	IncludeTrashed bool
}

// UploadOptions contains options for uploading a file.
type UploadOptions struct {
	ParentFolders []string
	Description   string
	MimeType      string
}

// MoveOptions contains options for moving or renaming a file.
type MoveOptions struct {
	NewName       string
	AddParents    []string
	RemoveParents []string
}

// ShareOptions contains options for sharing a file.
type ShareOptions struct {
	// Type is the grantee type: "user", "group", "domain" or "anyone".
	Type string

	// Role is the role to grant: "writer", "commenter", "reader", ...
	Role string

	EmailAddress          string
	Domain                string
	SendNotificationEmail bool
	EmailMessage          string
}

// toFileInfo converts a Drive API File to our FileInfo type.
func toFileInfo(f *drive.File) *FileInfo {
	info := &FileInfo{
		ID:             f.Id,
		Name:           f.Name,
		MimeType:       f.MimeType,
		Size:           f.Size,
		WebViewLink:    f.WebViewLink,
		WebContentLink: f.WebContentLink,
		Parents:        f.Parents,
		Shared:         f.Shared,
		Trashed:        f.Trashed,
		CreatedTime:    gapi.ParseRFC3339(f.CreatedTime),
		ModifiedTime:   gapi.ParseRFC3339(f.ModifiedTime),
	}

	if f.TrashedTime != "" {
		if t := gapi.ParseRFC3339(f.TrashedTime); !t.IsZero() {
			info.TrashedTime = &t
		}
	}

	for _, owner := range f.Owners {
		info.Owners = append(info.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
		})
	}

	return info
}

// toPermission converts a Drive API Permission to our Permission type.
func toPermission(p *drive.Permission) *Permission {
	return &Permission{
		ID:           p.Id,
		Type:         p.Type,
		Role:         p.Role,
		EmailAddress: p.EmailAddress,
		Domain:       p.Domain,
		DisplayName:  p.DisplayName,
	}
}
