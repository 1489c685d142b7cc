package catalog

import "strconv"

// Ownership tells who governs the lifecycle of a product variation.
//
// The interface is sealed: RemoteOwned and LocalOwned are the only
// implementations, so every switch over ownership is exhaustive by
// construction.
type Ownership interface {
	isOwnership()
	String() string
}

// RemoteOwned variations are created, updated and deleted by sync only
type RemoteOwned struct {
	RemoteID int64
}

func (RemoteOwned) isOwnership() {}

func (o RemoteOwned) String() string {
	return "remote:" + strconv.FormatInt(o.RemoteID, 10)
}

// LocalOwned variations are curated by hand and never touched by sync
type LocalOwned struct{}

func (LocalOwned) isOwnership() {}

func (LocalOwned) String() string {
	return "local"
}

// OwnershipFromRemoteID rebuilds the variant from a stored nullable id.
// Only the persistence layer should need this.
func OwnershipFromRemoteID(remoteID *int64) Ownership {
	if remoteID == nil {
		return LocalOwned{}
	}
	return RemoteOwned{RemoteID: *remoteID}
}

// RemoteIDOf is the inverse of OwnershipFromRemoteID
func RemoteIDOf(o Ownership) *int64 {
	if r, ok := o.(RemoteOwned); ok {
		id := r.RemoteID
		return &id
	}
	return nil
}
