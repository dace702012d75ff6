package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hostel-seat-allocation/internal/model"
)

const boarderNotFound = "Boarder not found"

// BoarderRepo provides access to the boarders table.
type BoarderRepo struct {
	db *sql.DB
}

// NewBoarderRepo constructs a BoarderRepo with the given DB handle.
func NewBoarderRepo(db *sql.DB) *BoarderRepo { return &BoarderRepo{db: db} }

const boarderColumns = `id, name, email, dob, phone, photo_url, id_card_url, is_student, organisation, parent_name, parent_number, created_at, updated_at`

// CreateBoarder inserts the boarder and fills in ID and timestamps.
func (r *BoarderRepo) CreateBoarder(ctx context.Context, b *model.Boarder) error {
	now := time.Now().UTC()
	const q = `INSERT INTO boarders (name, email, dob, phone, photo_url, id_card_url, is_student, organisation, parent_name, parent_number, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.Name, b.Email, b.DOB, b.Phone, b.PhotoURL, b.IDCardURL, b.IsStudent,
		b.Organisation, b.ParentName, b.ParentNumber, now, now,
	)
	if err != nil {
		return translate(err, "create boarder", "", "")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.CreatedAt, b.UpdatedAt = now, now
	return nil
}

// GetBoarder fetches a boarder by ID.
func (r *BoarderRepo) GetBoarder(ctx context.Context, id uint64) (*model.Boarder, error) {
	var b model.Boarder
	err := r.db.QueryRowContext(ctx, `SELECT `+boarderColumns+` FROM boarders WHERE id = ?`, id).Scan(boarderDest(&b)...)
	if err != nil {
		return nil, translate(err, "get boarder", boarderNotFound, "")
	}
	return &b, nil
}

// ListBoarders returns one page of boarders, newest first, with an
// isAllocated flag computed from the ledger, plus the total match count.
func (r *BoarderRepo) ListBoarders(ctx context.Context, q model.BoarderQuery) ([]model.BoarderListItem, int, error) {
	where := ""
	var args []any
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		where = ` WHERE LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR LOWER(parent_name) LIKE ?`
		args = append(args, like, like, like, like)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM boarders`+where, args...).Scan(&total); err != nil {
		return nil, 0, translate(err, "count boarders", "", "")
	}

	query := `SELECT ` + boarderColumns + `,
	          EXISTS (SELECT 1 FROM allocations a WHERE a.boarder_id = boarders.id AND a.active = 1)
	          FROM boarders` + where + `
	          ORDER BY created_at DESC, id DESC
	          LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Offset())
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, translate(err, "list boarders", "", "")
	}
	defer rows.Close()

	out := []model.BoarderListItem{}
	for rows.Next() {
		var it model.BoarderListItem
		dest := append(boarderDest(&it.Boarder), &it.IsAllocated)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	return out, total, rows.Err()
}

func boarderDest(b *model.Boarder) []any {
	return []any{
		&b.ID, &b.Name, &b.Email, &b.DOB, &b.Phone, &b.PhotoURL, &b.IDCardURL, &b.IsStudent,
		&b.Organisation, &b.ParentName, &b.ParentNumber, &b.CreatedAt, &b.UpdatedAt,
	}
}

// escapeLike escapes the LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
