package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/microblog/apiserver/types"
)

// BlogpostRepository handles persistence for blogposts.
type BlogpostRepository struct {
	db *sql.DB
}

func NewBlogpostRepository(db *sql.DB) *BlogpostRepository {
	return &BlogpostRepository{db: db}
}

func (r *BlogpostRepository) List(ctx context.Context) ([]types.Blogpost, error) {
	const query = `
		SELECT id, title, contents, owner_id, created_at, modified_at
		FROM blogposts
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]types.Blogpost, 0)
	for rows.Next() {
		var post types.Blogpost
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Contents,
			&post.OwnerID,
			&post.CreatedAt,
			&post.ModifiedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *BlogpostRepository) Get(ctx context.Context, id int) (types.Blogpost, error) {
	const query = `
		SELECT id, title, contents, owner_id, created_at, modified_at
		FROM blogposts
		WHERE id = $1`
	var post types.Blogpost
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Contents,
		&post.OwnerID,
		&post.CreatedAt,
		&post.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Blogpost{}, ErrNotFound
		}
		return types.Blogpost{}, err
	}
	return post, nil
}

func (r *BlogpostRepository) Create(ctx context.Context, post types.Blogpost) (types.Blogpost, error) {
	now := time.Now()
	post.CreatedAt = now
	post.ModifiedAt = now

	const query = `
		INSERT INTO blogposts (title, contents, owner_id, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		post.Title,
		post.Contents,
		post.OwnerID,
		post.CreatedAt,
		post.ModifiedAt,
	).Scan(&post.ID); err != nil {
		return types.Blogpost{}, err
	}
	return post, nil
}

func (r *BlogpostRepository) Update(ctx context.Context, post types.Blogpost) (types.Blogpost, error) {
	post.ModifiedAt = time.Now()

	const query = `
		UPDATE blogposts
		SET title = $1,
			contents = $2,
			modified_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(
		ctx,
		query,
		post.Title,
		post.Contents,
		post.ModifiedAt,
		post.ID,
	)
	if err != nil {
		return types.Blogpost{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Blogpost{}, err
	}
	if affected == 0 {
		return types.Blogpost{}, ErrNotFound
	}
	return post, nil
}

func (r *BlogpostRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM blogposts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
