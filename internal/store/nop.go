package store

import "time"

// NopStore is a no-op store used in dry-run mode. Nothing is ever recorded,
// so every posting inside the window appears new on each pass.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) FirstSeen(string) (time.Time, bool, error) { return time.Time{}, false, nil }
func (s *NopStore) Record(string, time.Time) error            { return nil }
func (s *NopStore) Cleanup(time.Duration) error               { return nil }
func (s *NopStore) Len() (int, error)                         { return 0, nil }
func (s *NopStore) Close() error                              { return nil }
