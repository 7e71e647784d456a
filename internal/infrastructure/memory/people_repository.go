package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

var (
	_ repository.EmployeeRepository = (*EmployeeRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
)

// EmployeeRepo implementación en memoria de EmployeeRepository.
type EmployeeRepo struct {
	s *Store
}

// NewEmployeeRepository construye el repositorio.
func NewEmployeeRepository(s *Store) *EmployeeRepo { return &EmployeeRepo{s: s} }

func (r *EmployeeRepo) Create(_ context.Context, e *entity.Employee) error {
	var err error
	r.s.write(func(st *state) {
		for _, other := range st.employees {
			if strings.EqualFold(other.Username, e.Username) {
				err = domain.ErrDuplicateCredential
				return
			}
		}
		cp := *e
		st.employees[e.ID] = &cp
	})
	return err
}

func (r *EmployeeRepo) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	var out *entity.Employee
	r.s.read(func(st *state) {
		if e, ok := st.employees[id]; ok {
			cp := *e
			out = &cp
		}
	})
	return out, nil
}

func (r *EmployeeRepo) GetByUsername(_ context.Context, username string) (*entity.Employee, error) {
	var out *entity.Employee
	r.s.read(func(st *state) {
		for _, e := range st.employees {
			if strings.EqualFold(e.Username, username) {
				cp := *e
				out = &cp
				return
			}
		}
	})
	return out, nil
}

func (r *EmployeeRepo) List(_ context.Context, limit, offset int) ([]*entity.Employee, error) {
	var out []*entity.Employee
	r.s.read(func(st *state) {
		for _, e := range st.employees {
			cp := *e
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *EmployeeRepo) Update(_ context.Context, e *entity.Employee) error {
	var err error
	r.s.write(func(st *state) {
		cur, ok := st.employees[e.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.Name = e.Name
		cur.Role = e.Role
		cur.UpdatedAt = e.UpdatedAt
	})
	return err
}

func (r *EmployeeRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	var err error
	r.s.write(func(st *state) {
		cur, ok := st.employees[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.PasswordHash = hash
	})
	return err
}

// CustomerRepo implementación en memoria de CustomerRepository.
type CustomerRepo struct {
	s *Store
}

// NewCustomerRepository construye el repositorio.
func NewCustomerRepository(s *Store) *CustomerRepo { return &CustomerRepo{s: s} }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	var err error
	r.s.write(func(st *state) {
		for _, other := range st.customers {
			if strings.EqualFold(other.Username, c.Username) {
				err = domain.ErrDuplicateCredential
				return
			}
		}
		cp := *c
		st.customers[c.ID] = &cp
	})
	return err
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.s.read(func(st *state) {
		if c, ok := st.customers[id]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}

func (r *CustomerRepo) GetByUsername(_ context.Context, username string) (*entity.Customer, error) {
	var out *entity.Customer
	r.s.read(func(st *state) {
		for _, c := range st.customers {
			if strings.EqualFold(c.Username, username) {
				cp := *c
				out = &cp
				return
			}
		}
	})
	return out, nil
}

func (r *CustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	r.s.read(func(st *state) {
		for _, c := range st.customers {
			cp := *c
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	var err error
	r.s.write(func(st *state) {
		cur, ok := st.customers[c.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.Name = c.Name
		cur.Address = c.Address
		cur.Phone = c.Phone
		cur.UpdatedAt = c.UpdatedAt
	})
	return err
}

func (r *CustomerRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	var err error
	r.s.write(func(st *state) {
		cur, ok := st.customers[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		cur.PasswordHash = hash
	})
	return err
}
