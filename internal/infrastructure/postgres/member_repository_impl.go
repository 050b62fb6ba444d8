package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	"github.com/oksasatya/perfume-catalog/internal/domain/repository"
)

type MemberRepository struct {
	db *DB
}

func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = `id::text, email, password_hash, name, yob, gender, is_admin, created_at, updated_at`

func scanMember(row pgx.Row) (*entity.Member, error) {
	m := &entity.Member{}
	if err := row.Scan(&m.ID, &m.Email, &m.Password, &m.Name, &m.YOB, &m.Gender,
		&m.IsAdmin, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (r *MemberRepository) collect(rows pgx.Rows) ([]entity.Member, error) {
	defer rows.Close()
	out := []entity.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *MemberRepository) List(ctx context.Context) ([]entity.Member, error) {
	rows, err := r.db.q(ctx).Query(ctx, `SELECT `+memberColumns+` FROM members ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *MemberRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.q(ctx).QueryRow(ctx, `SELECT count(*) FROM members`).Scan(&n)
	return n, err
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (*entity.Member, error) {
	return scanMember(r.db.q(ctx).QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
}

func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*entity.Member, error) {
	return scanMember(r.db.q(ctx).QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE email = $1`,
		entity.NormalizeEmail(email)))
}

func (r *MemberRepository) GetByIDs(ctx context.Context, ids []string) (map[string]entity.Member, error) {
	out := make(map[string]entity.Member, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.q(ctx).Query(ctx, `SELECT `+memberColumns+` FROM members WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	members, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		out[m.ID] = m
	}
	return out, nil
}

func (r *MemberRepository) LockByID(ctx context.Context, id string, mode repository.LockMode) (*entity.Member, error) {
	return scanMember(r.db.q(ctx).QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`+lockClause(mode), id))
}

func (r *MemberRepository) ExistsAdmin(ctx context.Context) (bool, error) {
	var ok bool
	err := r.db.q(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE is_admin)`).Scan(&ok)
	return ok, err
}

func (r *MemberRepository) Create(ctx context.Context, m *entity.Member) error {
	m.Email = entity.NormalizeEmail(m.Email)
	row := r.db.q(ctx).QueryRow(ctx, `
		INSERT INTO members (email, password_hash, name, yob, gender, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at, updated_at
	`, m.Email, m.Password, m.Name, m.YOB, m.Gender, m.IsAdmin)
	return mapErr(row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt))
}

func (r *MemberRepository) Update(ctx context.Context, m *entity.Member) error {
	m.Email = entity.NormalizeEmail(m.Email)
	m.UpdatedAt = time.Now()
	res, err := r.db.q(ctx).Exec(ctx, `
		UPDATE members
		SET email = $1, password_hash = $2, name = $3, yob = $4, gender = $5,
		    is_admin = $6, updated_at = $7
		WHERE id = $8
	`, m.Email, m.Password, m.Name, m.YOB, m.Gender, m.IsAdmin, m.UpdatedAt, m.ID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.q(ctx).Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.MemberRepository = (*MemberRepository)(nil)
