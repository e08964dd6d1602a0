package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	AdminIdentity IdentityRepository
	UserIdentity  IdentityRepository
	User          UserRepository
	Customer      CustomerRepository
	Sample        SampleRepository
	Order         OrderRepository
	Employee      EmployeeRepository
	OperationLog  OperationLogRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		AdminIdentity: NewAdminIdentityRepository(db),
		UserIdentity:  NewUserIdentityRepository(db),
		User:          NewUserRepository(db),
		Customer:      NewCustomerRepository(db),
		Sample:        NewSampleRepository(db),
		Order:         NewOrderRepository(db),
		Employee:      NewEmployeeRepository(db),
		OperationLog:  NewOperationLogRepository(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// paginate applies offset/limit; PerPage <= 0 returns everything
func (q *ListQuery) paginate(db *gorm.DB) *gorm.DB {
	if q.PerPage <= 0 {
		return db
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return db.Offset((page - 1) * q.PerPage).Limit(q.PerPage)
}

// order applies SortBy when it is one of the allowed columns, otherwise the fallback
func (q *ListQuery) order(db *gorm.DB, allowed map[string]string, fallback string) *gorm.DB {
	column, ok := allowed[q.SortBy]
	if !ok {
		return db.Order(fallback)
	}
	if q.SortDir == "desc" {
		column += " DESC"
	}
	return db.Order(column)
}

func likePattern(s string) string {
	return "%" + s + "%"
}

// IsDuplicateKeyError reports a unique-constraint violation, optionally on a named constraint
func IsDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && (constraintName == "" || pgErr.ConstraintName == constraintName)
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
