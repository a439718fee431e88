// Package jsonstore implements the domain repositories on top of the
// filestore collections.
package jsonstore

import "ayursetu-backend/internal/infrastructure/filestore"

// Collection names, one JSON file each.
const (
	CollectionDoctors      = "doctors"
	CollectionPatients     = "patients"
	CollectionAppointments = "appointments"
	CollectionUsers        = "users"
	CollectionAuditLogs    = "audit_logs"
)

func loadAll[T any](tx *filestore.Tx, name string) ([]T, error) {
	var items []T
	if err := tx.Load(name, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func saveAll[T any](tx *filestore.Tx, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return tx.Save(name, items)
}
