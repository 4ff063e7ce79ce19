// Package clients implements the flat-file client store. The backing file
// holds a JSON array of client records; every mutation is a full
// load-mutate-save cycle, which is acceptable at this record-count scale.
package clients

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rmarban/invoicedesk/internal/models"
	"github.com/rmarban/invoicedesk/internal/storage"
	"github.com/rmarban/invoicedesk/pkg/identifier"
)

const idPrefix = "CLT"

// Store persists client records as a single JSON file. It favors availability
// over strict durability: a corrupted file is quarantined and replaced with an
// empty store instead of blocking the caller.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates a client store backed by the file at path.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Load reads all clients from the backing file. An absent file is created
// empty; unparseable content is quarantined to a timestamped backup and
// replaced with an empty store. Records lacking a non-empty ID or name are
// silently dropped.
func (s *Store) Load() ([]models.Client, error) {
	content, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if err := storage.WriteAtomic(s.path, []byte("[]")); err != nil {
			return nil, fmt.Errorf("failed to create client store: %w", err)
		}
		return []models.Client{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read client store: %w", err)
	}

	var raw []models.Client
	if err := json.Unmarshal(content, &raw); err != nil {
		backup, qErr := storage.Quarantine(s.path)
		if qErr != nil {
			return nil, fmt.Errorf("failed to quarantine corrupt client store: %w", qErr)
		}
		s.logger.Warn("Client store corrupted, starting fresh",
			zap.String("path", s.path),
			zap.String("backup", backup),
			zap.Error(err))
		if err := storage.WriteAtomic(s.path, []byte("[]")); err != nil {
			return nil, fmt.Errorf("failed to reset client store: %w", err)
		}
		return []models.Client{}, nil
	}

	return validate(raw), nil
}

// Save re-validates every record and replaces the backing file in one atomic
// write.
func (s *Store) Save(records []models.Client) error {
	validated := validate(records)

	content, err := json.MarshalIndent(validated, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode clients: %w", err)
	}
	if err := storage.WriteAtomic(s.path, content); err != nil {
		s.logger.Error("Failed to save client store",
			zap.String("path", s.path),
			zap.Error(err))
		return fmt.Errorf("failed to save clients: %w", err)
	}
	return nil
}

// Add assigns a new ID and creation timestamp to the client, persists it, and
// returns the assigned ID. Fails with ErrNameRequired when the name is empty.
func (s *Store) Add(client models.Client) (string, error) {
	if client.Name == "" {
		return "", ErrNameRequired
	}

	records, err := s.Load()
	if err != nil {
		return "", err
	}

	client.ID = identifier.New(idPrefix)
	client.CreatedAt = time.Now().Format(time.RFC3339)
	records = append(records, client)

	if err := s.Save(records); err != nil {
		return "", err
	}

	s.logger.Info("Client added", zap.String("id", client.ID), zap.String("name", client.Name))
	return client.ID, nil
}

// Update merges the patch into the client with the given ID and sets its
// updated_at timestamp. Fails with ErrNotFound when no record matches.
func (s *Store) Update(id string, patch models.ClientPatch) error {
	records, err := s.Load()
	if err != nil {
		return err
	}

	updated := false
	for i := range records {
		if records[i].ID != id {
			continue
		}
		applyPatch(&records[i], patch)
		records[i].UpdatedAt = time.Now().Format(time.RFC3339)
		updated = true
		break
	}
	if !updated {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return s.Save(records)
}

// Delete removes the client with the given ID. Fails with ErrNotFound when no
// record matches.
func (s *Store) Delete(id string) error {
	records, err := s.Load()
	if err != nil {
		return err
	}

	remaining := records[:0]
	for _, c := range records {
		if c.ID != id {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == len(records) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return s.Save(remaining)
}

// Search returns clients whose name, email, phone, or address contains the
// query, case-insensitively.
func (s *Store) Search(query string) ([]models.Client, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	matches := []models.Client{}
	for _, c := range records {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Email), query) ||
			strings.Contains(strings.ToLower(c.Phone), query) ||
			strings.Contains(strings.ToLower(c.Address), query) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

// Get returns the client with the given ID, or nil when no record matches.
func (s *Store) Get(id string) (*models.Client, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}

	for _, c := range records {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

// validate drops records lacking a non-empty ID or name and backfills a
// creation timestamp where missing.
func validate(records []models.Client) []models.Client {
	validated := []models.Client{}
	for _, c := range records {
		if c.ID == "" || c.Name == "" {
			continue
		}
		if c.CreatedAt == "" {
			c.CreatedAt = time.Now().Format(time.RFC3339)
		}
		validated = append(validated, c)
	}
	return validated
}

func applyPatch(c *models.Client, patch models.ClientPatch) {
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Address != nil {
		c.Address = *patch.Address
	}
}
