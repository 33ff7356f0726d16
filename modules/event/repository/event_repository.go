package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"event-manager-api/core/database"
	"event-manager-api/core/logger"
	"event-manager-api/core/utils"
	"event-manager-api/modules/event/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrEventNotFound = stderrors.New("event not found")
	ErrNotOrganizer  = stderrors.New("caller is not the event organizer")
	ErrUnknownUsers  = stderrors.New("unknown user ids")
	ErrNotAttendee   = stderrors.New("user is not an attendee of the event")
)

// UnknownUsersError lists the ids that matched no user. It matches ErrUnknownUsers.
type UnknownUsersError struct {
	IDs []uuid.UUID
}

func (e *UnknownUsersError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnknownUsers, e.IDs)
}

func (e *UnknownUsersError) Is(target error) bool {
	return target == ErrUnknownUsers
}

type EventRepository struct {
	DB database.Database
}

func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface is the event store. Every mutating call runs in a
// single transaction; calls that change an existing event lock its row first,
// so concurrent writers to one event are serialised. Writes return the event
// as read inside their own transaction along with the newly added attendee ids.
type EventRepositoryInterface interface {
	CreateEventWithAttendees(ctx context.Context, event *entity.Event, attendeeIDs []uuid.UUID) (*entity.EventDetail, []uuid.UUID, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*entity.EventDetail, error)
	GetAttendees(ctx context.Context, eventID uuid.UUID) ([]entity.Attendee, error)
	ListEventsForUser(ctx context.Context, userID uuid.UUID) ([]entity.EventSummary, error)
	UpdateEvent(ctx context.Context, eventID, callerID uuid.UUID, patch entity.EventPatch, attendeeIDs *[]uuid.UUID) (*entity.EventDetail, []uuid.UUID, error)
	ReplaceAttendees(ctx context.Context, eventID, callerID uuid.UUID, attendeeIDs []uuid.UUID) (*entity.EventDetail, []uuid.UUID, error)
	DeleteEvent(ctx context.Context, eventID, callerID uuid.UUID) error
	UpdateAttendeeStatus(ctx context.Context, eventID, userID uuid.UUID, status string) error
}

const eventColumns = `
	e.id, e.title, e.description,
	to_char(e.date, 'YYYY-MM-DD') AS date,
	to_char(e.time, 'HH24:MI') AS time,
	e.location, e.organizer_id, e.created_at, e.updated_at`

const summarySelect = `
	SELECT ` + eventColumns + `,
		u.name AS organizer_name,
		u.email AS organizer_email,
		(SELECT COUNT(*) FROM event_attendees a WHERE a.event_id = e.id) AS attendee_count
	FROM events e
	JOIN users u ON u.id = e.organizer_id`

// ===================== Reads =====================

// queryer is satisfied by both database.Database and *sqlx.Tx.
type queryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID uuid.UUID) (*entity.EventDetail, error) {
	return loadDetail(ctx, r.DB, eventID)
}

// GetAttendees returns an empty list for an event that has none or no longer exists.
func (r *EventRepository) GetAttendees(ctx context.Context, eventID uuid.UUID) ([]entity.Attendee, error) {
	return loadAttendees(ctx, r.DB, eventID)
}

func loadDetail(ctx context.Context, q queryer, eventID uuid.UUID) (*entity.EventDetail, error) {
	var summary entity.EventSummary
	err := q.GetContext(ctx, &summary, summarySelect+` WHERE e.id = $1`, eventID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		logger.Error("EventRepository:GetEvent", err)
		return nil, err
	}

	attendees, err := loadAttendees(ctx, q, eventID)
	if err != nil {
		return nil, err
	}

	return &entity.EventDetail{EventSummary: summary, Attendees: attendees}, nil
}

func loadAttendees(ctx context.Context, q queryer, eventID uuid.UUID) ([]entity.Attendee, error) {
	query := `
		SELECT a.user_id, u.name, u.email, u.profile_picture, a.status
		FROM event_attendees a
		JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1
		ORDER BY u.name, u.email`

	attendees := []entity.Attendee{}
	if err := q.SelectContext(ctx, &attendees, query, eventID); err != nil {
		logger.Error("EventRepository:GetAttendees", err)
		return nil, err
	}
	return attendees, nil
}

func (r *EventRepository) ListEventsForUser(ctx context.Context, userID uuid.UUID) ([]entity.EventSummary, error) {
	query := summarySelect + `
		WHERE e.organizer_id = $1
		   OR EXISTS (SELECT 1 FROM event_attendees a WHERE a.event_id = e.id AND a.user_id = $1)
		ORDER BY e.date, e.time, e.created_at`

	events := []entity.EventSummary{}
	if err := r.DB.SelectContext(ctx, &events, query, userID); err != nil {
		logger.Error("EventRepository:ListEventsForUser", err)
		return nil, err
	}
	return events, nil
}

// ===================== Writes =====================

func (r *EventRepository) CreateEventWithAttendees(ctx context.Context, event *entity.Event, attendeeIDs []uuid.UUID) (*entity.EventDetail, []uuid.UUID, error) {
	query := `
		INSERT INTO events (title, description, date, time, location, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var detail *entity.EventDetail
	var added []uuid.UUID

	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		var eventID uuid.UUID
		if err := tx.GetContext(ctx, &eventID, query,
			event.Title, event.Description, event.Date, event.Time, event.Location, event.OrganizerID); err != nil {
			logger.Error("EventRepository:CreateEventWithAttendees:Insert", err)
			return err
		}

		var err error
		added, err = replaceAttendees(ctx, tx, eventID, event.OrganizerID, attendeeIDs)
		if err != nil {
			return err
		}

		detail, err = loadDetail(ctx, tx, eventID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return detail, added, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, eventID, callerID uuid.UUID, patch entity.EventPatch, attendeeIDs *[]uuid.UUID) (*entity.EventDetail, []uuid.UUID, error) {
	query := `
		UPDATE events SET
			title       = COALESCE($2::text, title),
			description = COALESCE($3::text, description),
			date        = COALESCE($4::date, date),
			time        = COALESCE($5::time, time),
			location    = COALESCE($6::text, location),
			updated_at  = NOW()
		WHERE id = $1`

	var detail *entity.EventDetail
	var added []uuid.UUID
	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		organizerID, err := lockEvent(ctx, tx, eventID, callerID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, eventID,
			patch.Title, patch.Description, patch.Date, patch.Time, patch.Location); err != nil {
			logger.Error("EventRepository:UpdateEvent:Update", err)
			return err
		}

		if attendeeIDs != nil {
			added, err = replaceAttendees(ctx, tx, eventID, organizerID, *attendeeIDs)
			if err != nil {
				return err
			}
		}

		detail, err = loadDetail(ctx, tx, eventID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return detail, added, nil
}

func (r *EventRepository) ReplaceAttendees(ctx context.Context, eventID, callerID uuid.UUID, attendeeIDs []uuid.UUID) (*entity.EventDetail, []uuid.UUID, error) {
	var detail *entity.EventDetail
	var added []uuid.UUID
	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		organizerID, err := lockEvent(ctx, tx, eventID, callerID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE events SET updated_at = NOW() WHERE id = $1`, eventID); err != nil {
			return err
		}

		added, err = replaceAttendees(ctx, tx, eventID, organizerID, attendeeIDs)
		if err != nil {
			return err
		}

		detail, err = loadDetail(ctx, tx, eventID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return detail, added, nil
}

// DeleteEvent removes the event; attendee rows go with it by cascade.
func (r *EventRepository) DeleteEvent(ctx context.Context, eventID, callerID uuid.UUID) error {
	return r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := lockEvent(ctx, tx, eventID, callerID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, eventID); err != nil {
			logger.Error("EventRepository:DeleteEvent:Delete", err)
			return err
		}
		return nil
	})
}

func (r *EventRepository) UpdateAttendeeStatus(ctx context.Context, eventID, userID uuid.UUID, status string) error {
	return r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID); err != nil {
			return err
		}
		if !exists {
			return ErrEventNotFound
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE event_attendees SET status = $3, updated_at = NOW()
			WHERE event_id = $1 AND user_id = $2`, eventID, userID, status)
		if err != nil {
			logger.Error("EventRepository:UpdateAttendeeStatus:Update", err)
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotAttendee
		}
		return nil
	})
}

// ===================== Transaction helpers =====================

// lockEvent takes the row lock on the event and checks the caller is its organizer.
func lockEvent(ctx context.Context, tx *sqlx.Tx, eventID, callerID uuid.UUID) (uuid.UUID, error) {
	var organizerID uuid.UUID
	err := tx.GetContext(ctx, &organizerID, `SELECT organizer_id FROM events WHERE id = $1 FOR UPDATE`, eventID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, ErrEventNotFound
		}
		logger.Error("EventRepository:LockEvent", err)
		return uuid.Nil, err
	}
	if organizerID != callerID {
		return uuid.Nil, ErrNotOrganizer
	}
	return organizerID, nil
}

// replaceAttendees makes the attendee set of eventID exactly userIDs (minus the
// organizer, duplicates collapsed). Retained rows keep their status, removed
// rows are deleted and new rows start as invited. It returns the newly added ids.
func replaceAttendees(ctx context.Context, tx *sqlx.Tx, eventID, organizerID uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := utils.UniqueUUIDs(userIDs, organizerID)

	if len(ids) > 0 {
		var found []uuid.UUID
		if err := tx.SelectContext(ctx, &found, `SELECT id FROM users WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
			logger.Error("EventRepository:ReplaceAttendees:CheckUsers", err)
			return nil, err
		}
		if len(found) != len(ids) {
			return nil, &UnknownUsersError{IDs: missing(ids, found)}
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM event_attendees
		WHERE event_id = $1 AND NOT (user_id = ANY($2))`, eventID, pq.Array(ids)); err != nil {
		logger.Error("EventRepository:ReplaceAttendees:Delete", err)
		return nil, err
	}

	added := []uuid.UUID{}
	if len(ids) == 0 {
		return added, nil
	}

	if err := tx.SelectContext(ctx, &added, `
		INSERT INTO event_attendees (event_id, user_id, status)
		SELECT $1, u, 'invited' FROM unnest($2::uuid[]) AS u
		ON CONFLICT (event_id, user_id) DO NOTHING
		RETURNING user_id`, eventID, pq.Array(ids)); err != nil {
		logger.Error("EventRepository:ReplaceAttendees:Insert", err)
		return nil, err
	}

	return added, nil
}

func missing(want, found []uuid.UUID) []uuid.UUID {
	have := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var out []uuid.UUID
	for _, id := range want {
		if _, ok := have[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
