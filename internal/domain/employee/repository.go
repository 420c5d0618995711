package employee

import "context"

// EmployeeRepository - read access to the employee directory
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, emp Employee) (Employee, error)
}
