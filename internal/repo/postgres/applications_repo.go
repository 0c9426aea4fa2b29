package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobhunt/jobhunt/internal/domain/application"
	"github.com/jobhunt/jobhunt/internal/observability"
)

// ApplicationsRepo persists job applications. Every query is filtered
// by owner, so a caller can never see or touch another user's rows; an
// id owned by someone else reads the same as a missing one.
type ApplicationsRepo struct {
	pool *pgxpool.Pool
	obs  *observability.Prom
}

func NewApplicationsRepo(pool *pgxpool.Pool, obs *observability.Prom) *ApplicationsRepo {
	return &ApplicationsRepo{pool: pool, obs: obs}
}

const applicationColumns = `id, user_id, company, role, location, link, salary_range, status, next_action_at, notes, created_at, updated_at`

func scanApplication(row pgx.Row) (application.Application, error) {
	var a application.Application

	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Company,
		&a.Role,
		&a.Location,
		&a.Link,
		&a.SalaryRange,
		&a.Status,
		&a.NextActionAt,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	return a, err
}

func (r *ApplicationsRepo) ListByOwner(ctx context.Context, ownerID string) ([]application.Application, error) {
	output := make([]application.Application, 0)

	err := observe(r.obs, "applications.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+applicationColumns+`
			 FROM applications
			 WHERE user_id = $1
			 ORDER BY updated_at DESC`,
			ownerID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			a, err := scanApplication(rows)

			if err != nil {
				return err
			}

			output = append(output, a)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *ApplicationsRepo) Create(ctx context.Context, ownerID string, req application.CreateApplicationRequest) (application.Application, error) {
	a := application.NewFromCreateRequest(ownerID, req)

	err := observe(r.obs, "applications.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO applications (id, user_id, company, role, location, link, salary_range, status, next_action_at, notes, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			a.ID, a.OwnerID, a.Company, a.Role, a.Location, a.Link, a.SalaryRange, a.Status, a.NextActionAt, a.Notes, a.CreatedAt, a.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return application.Application{}, err
	}

	return a, nil
}

// Update applies a merge patch: only fields present in the request make
// it into the SET clause. The owner check rides in the WHERE, so a
// mismatch surfaces as ErrNotFound rather than a distinct error.
func (r *ApplicationsRepo) Update(ctx context.Context, ownerID, id string, req application.UpdateApplicationRequest) (application.Application, error) {
	var sets []string
	var args []interface{}

	argsPosition := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argsPosition))
		args = append(args, value)
		argsPosition++
	}

	if req.Company != nil {
		add("company", *req.Company)
	}
	if req.Role != nil {
		add("role", *req.Role)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.Link != nil {
		add("link", *req.Link)
	}
	if req.SalaryRange != nil {
		add("salary_range", *req.SalaryRange)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.NextActionAtSet() {
		add("next_action_at", req.NextActionAt)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}

	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(
		`UPDATE applications
		 SET %s
		 WHERE id = $%d AND user_id = $%d
		 RETURNING `+applicationColumns,
		strings.Join(sets, ", "), argsPosition, argsPosition+1,
	)

	args = append(args, id, ownerID)

	var a application.Application

	err := observe(r.obs, "applications.update", func() error {
		var err error
		a, err = scanApplication(r.pool.QueryRow(ctx, query, args...))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}

		return application.Application{}, err
	}

	return a, nil
}

func (r *ApplicationsRepo) Delete(ctx context.Context, ownerID, id string) error {
	var tag pgconn.CommandTag

	err := observe(r.obs, "applications.delete", func() error {
		var err error
		tag, err = r.pool.Exec(ctx,
			`DELETE FROM applications WHERE id = $1 AND user_id = $2`,
			id, ownerID,
		)
		return err
	})

	if err != nil {
		return err
	}

	// if no rows were deleted the record is missing or not owned
	if tag.RowsAffected() == 0 {
		return application.ErrNotFound
	}

	return nil
}
