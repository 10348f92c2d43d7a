package store

import (
	"errors"
	"fmt"
	"hash/fnv"
	"time"
)

const signOfDayPrefix = "sign_of_day:"

// SignOfDay returns the practice suggestion for the given date. The
// first call of a day hashes the date over the sign list and pins the
// pick in settings, so later calls return the same sign even after
// the list changes.
func (s *Store) SignOfDay(now time.Time) (*Sign, error) {
	date := now.Format("2006-01-02")
	key := signOfDayPrefix + date

	id, err := s.Settings().Get(key)
	switch {
	case err == nil:
		sign, err := s.Signs().GetByID(id)
		if err == nil {
			return sign, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		// The pinned sign was deleted, pick a fresh one below
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	signs, err := s.Signs().List()
	if err != nil {
		return nil, err
	}
	if len(signs) == 0 {
		return nil, ErrNotFound
	}

	h := fnv.New32a()
	h.Write([]byte(date))
	sign := signs[int(h.Sum32())%len(signs)]

	if err := s.Settings().Set(key, sign.ID); err != nil {
		return nil, fmt.Errorf("failed to pin sign of day: %w", err)
	}
	return sign, nil
}
