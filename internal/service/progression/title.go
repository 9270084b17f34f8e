package progression

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/heartmarshall/readrace/internal/domain"
	"github.com/heartmarshall/readrace/internal/events"
)

// SelectTitle displays an unlocked badge as the user's title.
func (s *Store) SelectTitle(ctx context.Context, badgeID string) (domain.Badge, error) {
	badge, ok := s.catalog.Lookup(badgeID)
	if !ok {
		return domain.Badge{}, domain.NewValidationError("badgeId", "unknown badge")
	}

	s.mu.Lock()
	if !s.unlocked[badgeID] {
		s.mu.Unlock()
		return domain.Badge{}, domain.NewValidationError("badgeId", "badge is not unlocked")
	}
	if err := s.putTitleLocked(ctx, badgeID); err != nil {
		s.mu.Unlock()
		return domain.Badge{}, err
	}
	view := s.viewLocked()
	s.mu.Unlock()

	s.pub.Publish(ctx, events.TopicProgression, view)
	return badge, nil
}

// ClearTitle removes the selected title and its persisted key.
func (s *Store) ClearTitle(ctx context.Context) error {
	s.mu.Lock()
	if s.title == "" {
		s.mu.Unlock()
		return nil
	}
	if err := s.kv.Delete(ctx, KeyTitle); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("clear title: %w", err)
	}
	s.title = ""
	view := s.viewLocked()
	s.mu.Unlock()

	s.pub.Publish(ctx, events.TopicProgression, view)
	return nil
}

// Title returns the selected title, or nil when none is selected.
func (s *Store) Title() *domain.Badge {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.title == "" {
		return nil
	}
	b, ok := s.catalog.Lookup(s.title)
	if !ok {
		return nil
	}
	return &b
}

func (s *Store) putTitleLocked(ctx context.Context, badgeID string) error {
	data, err := json.Marshal(titleRecord{BadgeID: badgeID})
	if err != nil {
		return fmt.Errorf("encode title: %w", err)
	}
	if err := s.kv.Put(ctx, KeyTitle, data); err != nil {
		return fmt.Errorf("persist title: %w", err)
	}
	s.title = badgeID
	return nil
}
