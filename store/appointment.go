package store

import "context"

// Appointment is the object representing a medical appointment.
type Appointment struct {
	ID        int32
	UID       string
	Title     string
	Date      string // "YYYY-MM-DD"
	Time      *string
	Status    string // "upcoming", "completed", "cancelled"
	Note      *string
	CreatedTs int64
}

// FindAppointment is the find condition for appointments.
type FindAppointment struct {
	ID     *int32
	UID    *string
	Status *string

	Limit *int
}

// UpdateAppointment is the update request for an appointment.
type UpdateAppointment struct {
	ID     int32
	Title  *string
	Date   *string
	Time   *string
	Status *string
	Note   *string
}

// DeleteAppointment is the delete request for an appointment.
type DeleteAppointment struct {
	ID int32
}

func (s *Store) CreateAppointment(ctx context.Context, create *Appointment) (*Appointment, error) {
	return s.driver.CreateAppointment(ctx, create)
}

func (s *Store) ListAppointments(ctx context.Context, find *FindAppointment) ([]*Appointment, error) {
	return s.driver.ListAppointments(ctx, find)
}

func (s *Store) GetAppointment(ctx context.Context, find *FindAppointment) (*Appointment, error) {
	list, err := s.driver.ListAppointments(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateAppointment(ctx context.Context, update *UpdateAppointment) (*Appointment, error) {
	return s.driver.UpdateAppointment(ctx, update)
}

func (s *Store) DeleteAppointment(ctx context.Context, delete *DeleteAppointment) error {
	return s.driver.DeleteAppointment(ctx, delete)
}
