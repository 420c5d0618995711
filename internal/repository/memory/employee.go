package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Basel-Alghamdi/HRMS/internal/domain/employee"
)

type EmployeeRepository struct {
	mu        sync.Mutex
	employees map[string]*employee.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		employees: make(map[string]*employee.Employee),
	}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return *emp, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	stored := emp
	r.employees[emp.ID] = &stored
	return emp, nil
}
