package notifications

import (
	"context"
	"slices"
	"sync"
)

// Directory answers the user and customer lookups the notification paths
// need. It is backed by the application's user tables.
type Directory interface {
	// ActiveUserIDs lists active users holding role.
	ActiveUserIDs(ctx context.Context, role Role) ([]string, error)

	// CustomerOwner returns the user linked to customerID, or "" when none.
	CustomerOwner(ctx context.Context, customerID string) (string, error)

	// CustomerOf returns the customer linked to userID, or "" when none.
	CustomerOf(ctx context.Context, userID string) (string, error)
}

type directoryUser struct {
	role   Role
	active bool
}

// MemoryDirectory is an in-memory Directory.
type MemoryDirectory struct {
	mu        sync.RWMutex
	users     map[string]directoryUser
	customers map[string]string // customerID -> userID
}

// NewMemoryDirectory creates an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		users:     make(map[string]directoryUser),
		customers: make(map[string]string),
	}
}

// PutUser adds or replaces a user.
func (d *MemoryDirectory) PutUser(userID string, role Role, active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[userID] = directoryUser{role: role, active: active}
}

// LinkCustomer records userID as the owner of customerID.
func (d *MemoryDirectory) LinkCustomer(customerID, userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customers[customerID] = userID
}

func (d *MemoryDirectory) ActiveUserIDs(ctx context.Context, role Role) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0)
	for id, u := range d.users {
		if u.active && u.role == role {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (d *MemoryDirectory) CustomerOwner(ctx context.Context, customerID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.customers[customerID], nil
}

func (d *MemoryDirectory) CustomerOf(ctx context.Context, userID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for customerID, owner := range d.customers {
		if owner == userID {
			return customerID, nil
		}
	}
	return "", nil
}
