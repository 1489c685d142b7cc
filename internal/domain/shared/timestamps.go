package shared

import "time"

// RemoteIsNewer implements the newer-wins rule used by every reconciler.
//
// A remote snapshot may overwrite local fields only when the local side
// has never recorded a modification time, or when the remote time is
// strictly after it. A remote record without a modification time never
// wins against an existing local row.
func RemoteIsNewer(remoteModified, localModified *time.Time) bool {
	if remoteModified == nil {
		return false
	}
	if localModified == nil {
		return true
	}
	return remoteModified.After(*localModified)
}

// TimePtr returns a pointer to a copy of t
func TimePtr(t time.Time) *time.Time {
	return &t
}
