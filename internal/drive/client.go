package drive

import (
	"context"
	"fmt"
	"io"
	"strings"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/bpopineau/gspace/internal/dryrun"
	"github.com/bpopineau/gspace/internal/gapi"
	"github.com/bpopineau/gspace/internal/google"
)

// Client wraps the Google Drive API service.
type Client struct {
	svc     *drive.Service
	inv     *gapi.Invoker
	account string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// New creates a client from an already-constructed Drive service. Used by
// the workspace factory, which owns the shared invoker and limiters.
func New(svc *drive.Service, inv *gapi.Invoker, account string) *Client {
	return &Client{svc: svc, inv: inv, account: account}
}

// NewClientForAccount creates a Drive client with OAuth2 authentication for
// a specific account. Returns an error if no valid token exists.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	inv := gapi.NewInvoker(gapi.ServiceDrive, gapi.NewRateLimiter(gapi.ServiceDrive), nil, nil)
	return New(svc, inv, account), nil
}

// NewClient creates a Drive client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListFiles lists files matching opts, collecting pages up to
// opts.MaxResults.
func (c *Client) ListFiles(ctx context.Context, opts ListOptions) ([]*FileInfo, error) {
	query := opts.Query
	if !opts.IncludeTrashed {
		if query != "" {
			query = "(" + query + ") and trashed=false"
		} else {
			query = "trashed=false"
		}
	}

	files, err := gapi.CollectPages(ctx, opts.MaxResults, func(ctx context.Context, pageToken string) ([]*FileInfo, string, error) {
		var result *drive.FileList
		err := c.inv.Read(ctx, "files.list", func() error {
			call := c.svc.Files.List().
				Context(ctx).
				Q(query).
				Fields("nextPageToken", "files("+fileFields+")").
				PageSize(100)
			if opts.OrderBy != "" {
				call = call.OrderBy(opts.OrderBy)
			}
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			var callErr error
			result, callErr = call.Do()
			return callErr
		})
		if err != nil {
			return nil, "", err
		}

		infos := make([]*FileInfo, len(result.Files))
		for i, f := range result.Files {
			infos[i] = toFileInfo(f)
		}
		return infos, result.NextPageToken, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// GetFile retrieves metadata for a specific file.
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	var file *drive.File
	err := c.inv.Read(ctx, "files.get", func() error {
		var callErr error
		file, callErr = c.svc.Files.Get(fileID).
			Context(ctx).
			Fields(fileFields).
			Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}
	return toFileInfo(file), nil
}

// DownloadFile downloads the content of a file. The caller must close the
// returned reader.
func (c *Client) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	var body io.ReadCloser
	err := c.inv.Read(ctx, "files.download", func() error {
		resp, callErr := c.svc.Files.Get(fileID).Context(ctx).Download()
		if callErr != nil {
			return callErr
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	return body, nil
}

// ExportFile exports a Google Workspace document (Doc, Sheet, Slide) to the
// given MIME type. The caller must close the returned reader.
func (c *Client) ExportFile(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if mimeType == "" {
		return nil, fmt.Errorf("mimeType is required")
	}

	var body io.ReadCloser
	err := c.inv.Read(ctx, "files.export", func() error {
		resp, callErr := c.svc.Files.Export(fileID, mimeType).Context(ctx).Download()
		if callErr != nil {
			return callErr
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export file %s: %w", fileID, err)
	}
	return body, nil
}

// UploadFile uploads a file to Google Drive.
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader, uploadOpts *UploadOptions, opts ...gapi.CallOption) (*FileInfo, *dryrun.Report, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("file name is required")
	}
	if content == nil {
		return nil, nil, fmt.Errorf("file content is required")
	}

	file := &drive.File{Name: name}
	if uploadOpts != nil {
		file.Parents = uploadOpts.ParentFolders
		file.Description = uploadOpts.Description
		file.MimeType = uploadOpts.MimeType
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("drive", "files.create", name).
			WithChange("name", name).
			WithReason(callOpts.Reason)
		if uploadOpts != nil && len(uploadOpts.ParentFolders) > 0 {
			report.WithChange("parents", uploadOpts.ParentFolders)
		}
		return nil, c.inv.Simulated(ctx, report), nil
	}

	var created *drive.File
	err := c.inv.Mutate(ctx, "files.create", callOpts, func() error {
		var callErr error
		created, callErr = c.svc.Files.Create(file).
			Context(ctx).
			Media(content).
			Fields(fileFields).
			Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to upload file: %w", err)
	}
	return toFileInfo(created), nil, nil
}

// CreateFolder creates a new folder in Google Drive.
func (c *Client) CreateFolder(ctx context.Context, name string, parentFolders []string, opts ...gapi.CallOption) (*FileInfo, *dryrun.Report, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("folder name is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("drive", "files.create", name).
			WithChange("name", name).
			WithChange("mimeType", FolderMimeType).
			WithReason(callOpts.Reason)
		return nil, c.inv.Simulated(ctx, report), nil
	}

	file := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
		Parents:  parentFolders,
	}

	var created *drive.File
	err := c.inv.Mutate(ctx, "files.create", callOpts, func() error {
		var callErr error
		created, callErr = c.svc.Files.Create(file).
			Context(ctx).
			Fields(fileFields).
			Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return toFileInfo(created), nil, nil
}

// DeleteFile permanently deletes a file from Google Drive.
func (c *Client) DeleteFile(ctx context.Context, fileID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("drive", "files.delete", fileID).
			WithReason(callOpts.Reason)), nil
	}

	// Deletes are idempotent by resource ID
	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "files.delete", callOpts, func() error {
		return c.svc.Files.Delete(fileID).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return nil, nil
}

// TrashFile moves a file to the trash.
func (c *Client) TrashFile(ctx context.Context, fileID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	return c.setTrashed(ctx, fileID, true, opts...)
}

// UntrashFile restores a file from the trash.
func (c *Client) UntrashFile(ctx context.Context, fileID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	return c.setTrashed(ctx, fileID, false, opts...)
}

func (c *Client) setTrashed(ctx context.Context, fileID string, trashed bool, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("drive", "files.update", fileID).
			WithChange("trashed", trashed).
			WithReason(callOpts.Reason)), nil
	}

	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "files.update", callOpts, func() error {
		_, callErr := c.svc.Files.Update(fileID, &drive.File{Trashed: trashed}).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update trashed state of %s: %w", fileID, err)
	}
	return nil, nil
}

// MoveFile moves or renames a file.
func (c *Client) MoveFile(ctx context.Context, fileID string, moveOpts *MoveOptions, opts ...gapi.CallOption) (*FileInfo, *dryrun.Report, error) {
	if fileID == "" {
		return nil, nil, fmt.Errorf("fileID is required")
	}
	if moveOpts == nil {
		return nil, nil, fmt.Errorf("move options are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("drive", "files.update", fileID).WithReason(callOpts.Reason)
		if moveOpts.NewName != "" {
			report.WithChange("name", moveOpts.NewName)
		}
		if len(moveOpts.AddParents) > 0 {
			report.WithChange("addParents", moveOpts.AddParents)
		}
		if len(moveOpts.RemoveParents) > 0 {
			report.WithChange("removeParents", moveOpts.RemoveParents)
		}
		return nil, c.inv.Simulated(ctx, report), nil
	}

	update := &drive.File{}
	if moveOpts.NewName != "" {
		update.Name = moveOpts.NewName
	}

	var moved *drive.File
	err := c.inv.Mutate(ctx, "files.update", callOpts, func() error {
		call := c.svc.Files.Update(fileID, update).
			Context(ctx).
			Fields(fileFields)
		if len(moveOpts.AddParents) > 0 {
			call = call.AddParents(strings.Join(moveOpts.AddParents, ","))
		}
		if len(moveOpts.RemoveParents) > 0 {
			call = call.RemoveParents(strings.Join(moveOpts.RemoveParents, ","))
		}

		var callErr error
		moved, callErr = call.Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to move file %s: %w", fileID, err)
	}
	return toFileInfo(moved), nil, nil
}

// ShareFile creates a permission on a file.
func (c *Client) ShareFile(ctx context.Context, fileID string, shareOpts *ShareOptions, opts ...gapi.CallOption) (*Permission, *dryrun.Report, error) {
	if fileID == "" {
		return nil, nil, fmt.Errorf("fileID is required")
	}
	if shareOpts == nil || shareOpts.Type == "" || shareOpts.Role == "" {
		return nil, nil, fmt.Errorf("permission type and role are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		report := dryrun.New("drive", "permissions.create", fileID).
			WithChange("type", shareOpts.Type).
			WithChange("role", shareOpts.Role).
			WithReason(callOpts.Reason)
		if shareOpts.EmailAddress != "" {
			report.WithChange("emailAddress", shareOpts.EmailAddress)
		}
		return nil, c.inv.Simulated(ctx, report), nil
	}

	permission := &drive.Permission{
		Type:         shareOpts.Type,
		Role:         shareOpts.Role,
		EmailAddress: shareOpts.EmailAddress,
		Domain:       shareOpts.Domain,
	}

	var created *drive.Permission
	err := c.inv.Mutate(ctx, "permissions.create", callOpts, func() error {
		call := c.svc.Permissions.Create(fileID, permission).
			Context(ctx).
			Fields("id, type, role, emailAddress, domain, displayName")
		if shareOpts.SendNotificationEmail {
			call = call.SendNotificationEmail(true)
			if shareOpts.EmailMessage != "" {
				call = call.EmailMessage(shareOpts.EmailMessage)
			}
		}

		var callErr error
		created, callErr = call.Do()
		return callErr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to share file %s: %w", fileID, err)
	}
	return toPermission(created), nil, nil
}

// ListPermissions lists all permissions for a file.
func (c *Client) ListPermissions(ctx context.Context, fileID string) ([]*Permission, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	var list *drive.PermissionList
	err := c.inv.Read(ctx, "permissions.list", func() error {
		var callErr error
		list, callErr = c.svc.Permissions.List(fileID).
			Context(ctx).
			Fields("permissions(id, type, role, emailAddress, domain, displayName)").
			Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions for %s: %w", fileID, err)
	}

	permissions := make([]*Permission, len(list.Permissions))
	for i, p := range list.Permissions {
		permissions[i] = toPermission(p)
	}
	return permissions, nil
}

// RemovePermission removes a permission from a file.
func (c *Client) RemovePermission(ctx context.Context, fileID, permissionID string, opts ...gapi.CallOption) (*dryrun.Report, error) {
	if fileID == "" || permissionID == "" {
		return nil, fmt.Errorf("fileID and permissionID are required")
	}

	callOpts := gapi.ApplyOptions(opts...)
	if callOpts.DryRun {
		return c.inv.Simulated(ctx, dryrun.New("drive", "permissions.delete", fileID).
			WithChange("permissionId", permissionID).
			WithReason(callOpts.Reason)), nil
	}

	callOpts.RetryWrite = true

	err := c.inv.Mutate(ctx, "permissions.delete", callOpts, func() error {
		return c.svc.Permissions.Delete(fileID, permissionID).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove permission %s from %s: %w", permissionID, fileID, err)
	}
	return nil, nil
}
