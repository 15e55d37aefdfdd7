// internal/db/wishlists.go
package db

import (
	"context"
	"database/sql"
	"fmt"
)

const wishlistColumns = `id, user_name, phone, notes, coupon, court, slot_id, slot_label, date, preferred_booking_id, status, created_at`

const createWishlistEntrySQL = `
INSERT INTO wishlists (` + wishlistColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateWishlistEntry(ctx context.Context, e WishlistEntry) error {
	_, err := q.db.ExecContext(ctx, createWishlistEntrySQL,
		e.ID,
		e.UserName,
		e.Phone,
		e.Notes,
		e.Coupon,
		e.Court,
		e.SlotID,
		e.SlotLabel,
		e.Date,
		e.PreferredBookingID,
		e.Status,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create wishlist entry: %w", err)
	}
	return nil
}

const getOpenWishlistEntrySQL = `
SELECT ` + wishlistColumns + `
FROM wishlists
WHERE date = ? AND court = ? AND slot_id = ? AND phone = ? AND status = 'open'
LIMIT 1
`

// GetOpenWishlistEntry fetches the open entry for the duplicate-suppression
// key (date, court, slot, phone), if any.
func (q *Queries) GetOpenWishlistEntry(ctx context.Context, date, court, slotID, phone string) (WishlistEntry, error) {
	row := q.db.QueryRowContext(ctx, getOpenWishlistEntrySQL, date, court, slotID, phone)
	return scanWishlistEntry(row)
}

const getWishlistEntrySQL = `
SELECT ` + wishlistColumns + `
FROM wishlists
WHERE id = ?
`

func (q *Queries) GetWishlistEntry(ctx context.Context, id string) (WishlistEntry, error) {
	row := q.db.QueryRowContext(ctx, getWishlistEntrySQL, id)
	return scanWishlistEntry(row)
}

const listOpenWishlistsForSlotSQL = `
SELECT ` + wishlistColumns + `
FROM wishlists
WHERE date = ? AND court = ? AND slot_id = ? AND status = 'open'
ORDER BY created_at ASC
`

func (q *Queries) ListOpenWishlistsForSlot(ctx context.Context, date, court, slotID string) ([]WishlistEntry, error) {
	rows, err := q.db.QueryContext(ctx, listOpenWishlistsForSlotSQL, date, court, slotID)
	if err != nil {
		return nil, fmt.Errorf("list open wishlists for slot: %w", err)
	}
	defer rows.Close()
	return collectWishlistEntries(rows)
}

const listOpenWishlistsFromDateSQL = `
SELECT ` + wishlistColumns + `
FROM wishlists
WHERE date >= ? AND status = 'open'
ORDER BY date ASC, created_at ASC
`

// ListOpenWishlistsFromDate returns open entries for the given date and later,
// used by the freed-slot sweep.
func (q *Queries) ListOpenWishlistsFromDate(ctx context.Context, date string) ([]WishlistEntry, error) {
	rows, err := q.db.QueryContext(ctx, listOpenWishlistsFromDateSQL, date)
	if err != nil {
		return nil, fmt.Errorf("list open wishlists from date: %w", err)
	}
	defer rows.Close()
	return collectWishlistEntries(rows)
}

const countOpenWishlistsByDateCourtSQL = `
SELECT slot_id, COUNT(*)
FROM wishlists
WHERE date = ? AND court = ? AND status = 'open'
GROUP BY slot_id
`

// CountOpenWishlistsByDateCourt returns per-slot open wishlist counts for a
// date and court, keyed by slot id.
func (q *Queries) CountOpenWishlistsByDateCourt(ctx context.Context, date, court string) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx, countOpenWishlistsByDateCourtSQL, date, court)
	if err != nil {
		return nil, fmt.Errorf("count open wishlists: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var slotID string
		var count int64
		if err := rows.Scan(&slotID, &count); err != nil {
			return nil, fmt.Errorf("count open wishlists: %w", err)
		}
		counts[slotID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count open wishlists: %w", err)
	}
	return counts, nil
}

const updateWishlistStatusSQL = `
UPDATE wishlists
SET status = ?
WHERE id = ?
`

func (q *Queries) UpdateWishlistStatus(ctx context.Context, id, status string) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateWishlistStatusSQL, status, id)
	if err != nil {
		return 0, fmt.Errorf("update wishlist status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update wishlist status: %w", err)
	}
	return affected, nil
}

const expirePastOpenWishlistsSQL = `
UPDATE wishlists
SET status = 'expired'
WHERE status = 'open' AND date < ?
`

// ExpirePastOpenWishlists marks open entries for dates before the given date
// as expired and returns how many were changed.
func (q *Queries) ExpirePastOpenWishlists(ctx context.Context, date string) (int64, error) {
	result, err := q.db.ExecContext(ctx, expirePastOpenWishlistsSQL, date)
	if err != nil {
		return 0, fmt.Errorf("expire past wishlists: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire past wishlists: %w", err)
	}
	return affected, nil
}

func collectWishlistEntries(rows *sql.Rows) ([]WishlistEntry, error) {
	var entries []WishlistEntry
	for rows.Next() {
		e, err := scanWishlistEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan wishlist entries: %w", err)
	}
	return entries, nil
}

func scanWishlistEntry(row rowScanner) (WishlistEntry, error) {
	var e WishlistEntry
	err := row.Scan(
		&e.ID,
		&e.UserName,
		&e.Phone,
		&e.Notes,
		&e.Coupon,
		&e.Court,
		&e.SlotID,
		&e.SlotLabel,
		&e.Date,
		&e.PreferredBookingID,
		&e.Status,
		&e.CreatedAt,
	)
	if err != nil {
		return WishlistEntry{}, err
	}
	return e, nil
}
