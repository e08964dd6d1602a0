// Package audit records an operation log entry around designated mutating
// service calls. Recording never changes the outcome of the wrapped call:
// capture problems degrade to marker strings and persistence happens on a
// background worker.
package audit

import (
	"github.com/sjperalta/backoffice-api/internal/models"
)

// EntityType tags the kind of entity whose pre-state is captured for UPDATE and DELETE
type EntityType string

const (
	EntityCustomer EntityType = "customer"
	EntitySample   EntityType = "sample"
	EntityOrder    EntityType = "order"
	EntityEmployee EntityType = "employee"
	EntityUser     EntityType = "user"
)

// Operation is the audit configuration of one intercepted call
type Operation struct {
	// Name identifies the invoked operation, e.g. "CustomerService.Update"
	Name        string
	Module      string
	Action      string
	Description string

	// EntityType and IDParamIndex locate the entity id among the call
	// arguments. Only consulted for UPDATE and DELETE.
	EntityType   EntityType
	IDParamIndex int
}

func (op Operation) capturesOldData() bool {
	return op.EntityType != "" && (op.Action == models.ActionUpdate || op.Action == models.ActionDelete)
}

func (op Operation) capturesNewData() bool {
	return op.Action == models.ActionUpdate
}
