package drive

import (
	"testing"
	"time"

	drive "google.golang.org/api/drive/v3"
)

func TestToFileInfo(t *testing.T) {
	driveFile := &drive.File{
		Id:             "1aBcDeFgHiJkLmNoPqRsTuVwXyZ0123456789",
		Name:           "report.pdf",
		MimeType:       "application/pdf",
		Size:           2048,
		CreatedTime:    "2023-01-01T10:00:00Z",
		ModifiedTime:   "2023-01-02T15:30:00Z",
		TrashedTime:    "2023-01-03T20:00:00Z",
		WebViewLink:    "https://drive.google.com/file/d/abc/view",
		WebContentLink: "https://drive.google.com/uc?id=abc",
		Parents:        []string{"parent1", "parent2"},
		Shared:         true,
		Trashed:        true,
		Owners: []*drive.User{
			{DisplayName: "Test User", EmailAddress: "test@example.com"},
		},
	}

	info := toFileInfo(driveFile)

	if info.ID != driveFile.Id {
		t.Errorf("ID = %s, want %s", info.ID, driveFile.Id)
	}
	if info.Name != "report.pdf" {
		t.Errorf("Name = %s, want report.pdf", info.Name)
	}
	if info.Size != 2048 {
		t.Errorf("Size = %d, want 2048", info.Size)
	}
	if !info.Shared || !info.Trashed {
		t.Error("Expected Shared and Trashed to be true")
	}
	if len(info.Parents) != 2 {
		t.Errorf("Expected 2 parents, got %d", len(info.Parents))
	}
	if len(info.Owners) != 1 || info.Owners[0].EmailAddress != "test@example.com" {
		t.Errorf("Unexpected owners: %v", info.Owners)
	}

	wantCreated, _ := time.Parse(time.RFC3339, "2023-01-01T10:00:00Z")
	if !info.CreatedTime.Equal(wantCreated) {
		t.Errorf("CreatedTime = %v, want %v", info.CreatedTime, wantCreated)
	}
	if info.TrashedTime == nil {
		t.Error("Expected TrashedTime to be set")
	}
}

func TestToFileInfoMissingTimestamps(t *testing.T) {
	info := toFileInfo(&drive.File{Id: "x", Name: "y"})

	if !info.CreatedTime.IsZero() {
		t.Error("Expected zero CreatedTime for missing timestamp")
	}
	if info.TrashedTime != nil {
		t.Error("Expected nil TrashedTime when not trashed")
	}
}

func TestIsFolder(t *testing.T) {
	folder := toFileInfo(&drive.File{Id: "f", MimeType: FolderMimeType})
	if !folder.IsFolder() {
		t.Error("Expected folder MIME type to report IsFolder")
	}

	file := toFileInfo(&drive.File{Id: "f", MimeType: "application/pdf"})
	if file.IsFolder() {
		t.Error("Did not expect PDF to report IsFolder")
	}
}

func TestToPermission(t *testing.T) {
	p := toPermission(&drive.Permission{
		Id:           "perm1",
		Type:         "user",
		Role:         "reader",
		EmailAddress: "reader@example.com",
		DisplayName:  "Reader",
	})

	if p.ID != "perm1" || p.Type != "user" || p.Role != "reader" {
		t.Errorf("Unexpected permission: %+v", p)
	}
	if p.EmailAddress != "reader@example.com" {
		t.Errorf("EmailAddress = %s", p.EmailAddress)
	}
}
