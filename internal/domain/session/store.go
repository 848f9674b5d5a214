package session

// Observer is invoked on every login and logout. A nil identity means the
// session was cleared.
type Observer func(*Identity)

// Store holds the identity of the currently active user and notifies
// observers of changes. One instance is owned by the composition root.
type Store interface {
	Login(identity Identity) error
	Logout() error
	Current() *Identity
	Subscribe(observer Observer) (unsubscribe func())
}
