package marker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	errs "miscrits-atlas/internal/platform/errors"
	"miscrits-atlas/internal/platform/storage"
)

// Store persists map markers. Mutations are admin-gated one layer up.
type Store struct {
	db *gorm.DB
}

// NewStore wires the marker store onto the shared database handle.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errs.New(errs.KindMarker, "marker:new", "database handle required")
	}
	return &Store{db: db}, nil
}

// Create persists a new marker. A missing ID gets a fresh uuid; markers
// imported from a browser export keep theirs.
func (s *Store) Create(ctx context.Context, m Marker) (Marker, error) {
	const op = "marker:create"

	if m.Location == "" {
		return Marker{}, errs.New(errs.KindMarker, op, "location required")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	record, err := toRecord(m)
	if err != nil {
		return Marker{}, errs.Wrap(errs.KindMarker, op, "encode marker", err)
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return Marker{}, errs.Wrap(errs.KindMarker, op, "insert marker", err)
	}
	return fromRecord(record), nil
}

// Update replaces an existing marker's fields.
func (s *Store) Update(ctx context.Context, m Marker) (Marker, error) {
	const op = "marker:update"

	if m.ID == "" {
		return Marker{}, errs.New(errs.KindMarker, op, "marker id required")
	}
	var existing storage.MapMarker
	err := s.db.WithContext(ctx).Where("id = ?", m.ID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return Marker{}, errs.New(errs.KindMarker, op, "marker not found")
	}
	if err != nil {
		return Marker{}, errs.Wrap(errs.KindMarker, op, "load marker", err)
	}

	record, encErr := toRecord(m)
	if encErr != nil {
		return Marker{}, errs.Wrap(errs.KindMarker, op, "encode marker", encErr)
	}
	record.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return Marker{}, errs.Wrap(errs.KindMarker, op, "save marker", err)
	}
	return fromRecord(record), nil
}

// Delete removes a marker by id. Deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	const op = "marker:delete"
	if id == "" {
		return errs.New(errs.KindMarker, op, "marker id required")
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&storage.MapMarker{}).Error; err != nil {
		return errs.Wrap(errs.KindMarker, op, "delete marker", err)
	}
	return nil
}

// List returns markers, optionally narrowed to one location, newest last.
func (s *Store) List(ctx context.Context, location string) ([]Marker, error) {
	const op = "marker:list"

	query := s.db.WithContext(ctx).Order("created_at asc")
	if location != "" {
		query = query.Where("location = ?", location)
	}
	var records []storage.MapMarker
	if err := query.Find(&records).Error; err != nil {
		return nil, errs.Wrap(errs.KindMarker, op, "query markers", err)
	}
	markers := make([]Marker, 0, len(records))
	for _, r := range records {
		markers = append(markers, fromRecord(r))
	}
	return markers, nil
}

// Get loads one marker by id.
func (s *Store) Get(ctx context.Context, id string) (Marker, bool, error) {
	const op = "marker:get"

	var record storage.MapMarker
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return Marker{}, false, nil
	}
	if err != nil {
		return Marker{}, false, errs.Wrap(errs.KindMarker, op, "load marker", err)
	}
	return fromRecord(record), true, nil
}

// DeleteAll wipes every marker.
func (s *Store) DeleteAll(ctx context.Context) error {
	const op = "marker:delete_all"
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&storage.MapMarker{}).Error; err != nil {
		return errs.Wrap(errs.KindMarker, op, "delete markers", err)
	}
	return nil
}

// Export serializes every marker for download.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	markers, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(markers, "", "  ")
}

// Import replaces all markers with the given export. The whole import
// runs in one transaction so a bad payload leaves the table untouched.
func (s *Store) Import(ctx context.Context, data []byte) (int, error) {
	const op = "marker:import"

	var markers []Marker
	if err := json.Unmarshal(data, &markers); err != nil {
		return 0, errs.Wrap(errs.KindMarker, op, "decode import", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&storage.MapMarker{}).Error; err != nil {
			return err
		}
		for _, m := range markers {
			if m.Location == "" {
				continue
			}
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			record, err := toRecord(m)
			if err != nil {
				return err
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, errs.Wrap(errs.KindMarker, op, "replace markers", err)
	}
	return len(markers), nil
}

func toRecord(m Marker) (storage.MapMarker, error) {
	record := storage.MapMarker{
		ID:        m.ID,
		SpeciesID: m.SpeciesID,
		Location:  m.Location,
		Area:      m.Area,
		X:         m.X,
		Y:         m.Y,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if len(m.Days) > 0 {
		days, err := json.Marshal(m.Days)
		if err != nil {
			return storage.MapMarker{}, err
		}
		record.Days = datatypes.JSON(days)
	}
	return record, nil
}

func fromRecord(r storage.MapMarker) Marker {
	m := Marker{
		ID:        r.ID,
		SpeciesID: r.SpeciesID,
		Location:  r.Location,
		Area:      r.Area,
		X:         r.X,
		Y:         r.Y,
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if len(r.Days) > 0 {
		// Bad day data degrades to no restriction rather than failing.
		_ = json.Unmarshal(r.Days, &m.Days)
	}
	return m
}
