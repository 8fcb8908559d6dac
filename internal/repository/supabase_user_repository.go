package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pdf-summarizer/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

const usersTable = "users"

// PostgrestClient is the query entry point shared by *supabase.Client and
// *postgrest.Client.
type PostgrestClient interface {
	From(table string) *postgrest.QueryBuilder
}

type supabaseUserRow struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (row supabaseUserRow) toDomain() *domain.User {
	return &domain.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}
}

// SupabaseUserRepository implements domain.UserRepository through PostgREST.
type SupabaseUserRepository struct {
	client PostgrestClient
	logger domain.Logger
}

func NewSupabaseUserRepository(client PostgrestClient, logger domain.Logger) *SupabaseUserRepository {
	return &SupabaseUserRepository{
		client: client,
		logger: logger,
	}
}

func (r *SupabaseUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	data := map[string]interface{}{
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
	}

	body, _, err := r.client.From(usersTable).Insert(data, false, "", "representation", "").Execute()
	if err != nil {
		if isSupabaseUniqueViolation(err) {
			return nil, userConflict(err.Error())
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	var rows []supabaseUserRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create user: empty response")
	}

	user.ID = rows[0].ID
	user.CreatedAt = rows[0].CreatedAt
	return user, nil
}

func (r *SupabaseUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne("email", email)
}

func (r *SupabaseUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne("id", strconv.FormatInt(id, 10))
}

func (r *SupabaseUserRepository) findOne(column, value string) (*domain.User, error) {
	body, _, err := r.client.From(usersTable).
		Select("id,username,email,password_hash,created_at", "", false).
		Eq(column, value).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var rows []supabaseUserRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrUserNotFound
	}

	return rows[0].toDomain(), nil
}

// PostgREST reports database errors as "(code) message".
func isSupabaseUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), uniqueViolationCode)
}
