// Package drive provides a client for interacting with the Google Drive API.
//
// Besides file and folder CRUD, upload/download, trash handling and
// permission management, the package resolves human-friendly references
// (title, Drive URL, or raw ID) to canonical file IDs.
//
// Mutating methods follow the shared dry-run convention: pass
// gapi.DryRun(reason) and the method returns a *dryrun.Report instead of
// performing the change.
package drive
