package memory

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinovahealth/clinicflow/internal/domain"
	"github.com/clinovahealth/clinicflow/internal/domain/appointment"
	"github.com/clinovahealth/clinicflow/internal/domain/lab"
	"github.com/clinovahealth/clinicflow/internal/domain/patient"
	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
)

// Seed loads the demo dataset: a small registry, a morning queue mid-flight,
// a stocked pharmacy, and one staff account per role. The memory store is
// session-scoped, so every restart begins from this snapshot.
func Seed(ctx context.Context, s *Store, devPassword string) error {
	lastVisit := time.Date(2023, 10, 12, 0, 0, 0, 0, time.UTC)

	patients := []*patient.Patient{
		{Name: "John Doe", Phone: "555-0101", Age: 34, Gender: patient.GenderMale, LastVisit: &lastVisit},
		{Name: "Jane Smith", Phone: "555-0102", Age: 28, Gender: patient.GenderFemale},
		{Name: "Robert Brown", Phone: "555-0103", Age: 45, Gender: patient.GenderMale},
	}
	for _, p := range patients {
		if err := s.Patients().Create(ctx, p); err != nil {
			return fmt.Errorf("seeding patients: %w", err)
		}
	}

	appts := []*appointment.Appointment{
		{
			PatientID: patients[0].ID, PatientName: "John Doe", DoctorName: "Dr. Sarah Wilson",
			TimeSlot: "10:00 AM", Status: appointment.StatusWaiting, TokenNumber: "A001",
			Symptoms: "Persistent cough, mild fever", TotalBill: 4000, Paid: true,
		},
		{
			PatientID: patients[1].ID, PatientName: "Jane Smith", DoctorName: "Dr. Sarah Wilson",
			TimeSlot: "10:15 AM", Status: appointment.StatusScheduled, TotalBill: 4000,
		},
		{
			PatientID: patients[2].ID, PatientName: "Robert Brown", DoctorName: "Dr. Sarah Wilson",
			TimeSlot: "10:30 AM", Status: appointment.StatusInProgress, TokenNumber: "A002",
			Symptoms: "Severe migraine, sensitivity to light", TotalBill: 4000, Paid: true,
		},
	}
	for _, a := range appts {
		if err := s.Appointments().Create(ctx, a); err != nil {
			return fmt.Errorf("seeding appointments: %w", err)
		}
	}

	expiry := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	items := []*pharmacy.InventoryItem{
		{Name: "Amoxicillin 500mg", Category: "Antibiotic", Stock: 45, Unit: "Capsules", Price: 50, Expiry: expiry(2026, 12, 1), BatchNo: "B101"},
		{Name: "Paracetamol 500mg", Category: "Analgesic", Stock: 500, Unit: "Tablets", Price: 10, Expiry: expiry(2027, 6, 15), BatchNo: "B102"},
		{Name: "Ibuprofen 400mg", Category: "Pain Relief", Stock: 120, Unit: "Tablets", Price: 25, Expiry: expiry(2026, 8, 20), BatchNo: "B103"},
		{Name: "Cetirizine 10mg", Category: "Antihistamine", Stock: 85, Unit: "Tablets", Price: 15, Expiry: expiry(2027, 1, 10), BatchNo: "B104"},
		{Name: "Omeprazole 20mg", Category: "Antacid", Stock: 10, Unit: "Capsules", Price: 40, Expiry: expiry(2026, 5, 5), BatchNo: "B105"},
		{Name: "Metformin 500mg", Category: "Antidiabetic", Stock: 200, Unit: "Tablets", Price: 12, Expiry: expiry(2027, 11, 30), BatchNo: "B106"},
		{Name: "Azithromycin 250mg", Category: "Antibiotic", Stock: 5, Unit: "Tablets", Price: 150, Expiry: expiry(2026, 3, 1), BatchNo: "B107"},
	}
	for _, i := range items {
		if err := s.Inventory().CreateItem(ctx, i); err != nil {
			return fmt.Errorf("seeding inventory: %w", err)
		}
	}

	labOrders := []*lab.LabOrder{
		{
			AppointmentID: appts[0].ID, PatientID: patients[0].ID,
			PatientName: "John Doe", DoctorName: "Dr. Sarah Wilson",
			TestName: "Complete Blood Count", Priority: lab.PriorityRoutine, Status: lab.StatusPending,
		},
		{
			AppointmentID: appts[2].ID, PatientID: patients[2].ID,
			PatientName: "Robert Brown", DoctorName: "Dr. Sarah Wilson",
			TestName: "MRI Brain", Priority: lab.PriorityUrgent, Status: lab.StatusProcessing,
		},
	}
	for _, o := range labOrders {
		if err := s.LabOrders().Create(ctx, o); err != nil {
			return fmt.Errorf("seeding lab orders: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}
	staff := []struct {
		email string
		name  string
		role  domain.Role
	}{
		{"admin@clinicflow.local", "Clinic Admin", domain.RoleClinicAdmin},
		{"reception@clinicflow.local", "Front Desk", domain.RoleReceptionist},
		{"sarah.wilson@clinicflow.local", "Dr. Sarah Wilson", domain.RoleDoctor},
		{"pharmacy@clinicflow.local", "Pharmacy Desk", domain.RolePharmacist},
		{"lab@clinicflow.local", "Lab Bench", domain.RoleLabTech},
	}
	for _, st := range staff {
		u := &domain.User{
			Email:        st.email,
			PasswordHash: string(hash),
			FullName:     st.name,
			Role:         st.role,
			IsActive:     true,
		}
		if err := s.Users().Create(ctx, u); err != nil {
			return fmt.Errorf("seeding users: %w", err)
		}
	}

	return nil
}
