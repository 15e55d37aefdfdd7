// internal/db/bookings.go
package db

import (
	"context"
	"fmt"
)

const bookingColumns = `id, user_name, phone, coupon, notes, court, slot_id, slot_label, date, amount, status, created_at`

const createBookingSQL = `
INSERT INTO bookings (` + bookingColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateBooking(ctx context.Context, b Booking) error {
	_, err := q.db.ExecContext(ctx, createBookingSQL,
		b.ID,
		b.UserName,
		b.Phone,
		b.Coupon,
		b.Notes,
		b.Court,
		b.SlotID,
		b.SlotLabel,
		b.Date,
		b.Amount,
		b.Status,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

const getBookingSQL = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE id = ?
`

func (q *Queries) GetBooking(ctx context.Context, id string) (Booking, error) {
	row := q.db.QueryRowContext(ctx, getBookingSQL, id)
	return scanBooking(row)
}

const listBookingsByDateSQL = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE date = ?
ORDER BY created_at ASC
`

// ListBookingsByDate returns every booking for the date, any status, ordered
// by creation time. Occupancy filtering happens in the availability package.
func (q *Queries) ListBookingsByDate(ctx context.Context, date string) ([]Booking, error) {
	rows, err := q.db.QueryContext(ctx, listBookingsByDateSQL, date)
	if err != nil {
		return nil, fmt.Errorf("list bookings by date: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings by date: %w", err)
	}
	return bookings, nil
}

const listBookingsByPhoneSQL = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE phone = ?
ORDER BY created_at DESC
`

func (q *Queries) ListBookingsByPhone(ctx context.Context, phone string) ([]Booking, error) {
	rows, err := q.db.QueryContext(ctx, listBookingsByPhoneSQL, phone)
	if err != nil {
		return nil, fmt.Errorf("list bookings by phone: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings by phone: %w", err)
	}
	return bookings, nil
}

const updateBookingStatusSQL = `
UPDATE bookings
SET status = ?
WHERE id = ?
`

// UpdateBookingStatus returns the number of rows changed; zero means the
// booking does not exist.
func (q *Queries) UpdateBookingStatus(ctx context.Context, id, status string) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateBookingStatusSQL, status, id)
	if err != nil {
		return 0, fmt.Errorf("update booking status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update booking status: %w", err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID,
		&b.UserName,
		&b.Phone,
		&b.Coupon,
		&b.Notes,
		&b.Court,
		&b.SlotID,
		&b.SlotLabel,
		&b.Date,
		&b.Amount,
		&b.Status,
		&b.CreatedAt,
	)
	if err != nil {
		return Booking{}, err
	}
	return b, nil
}
