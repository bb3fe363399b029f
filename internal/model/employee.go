package model

import "time"

// Employee status values stored in employees.status.  An employee whose
// status is inactive can no longer sign in; the alternate late check-in
// sweep sets it once that counter reaches its threshold.
const (
    EmployeeActive   uint8 = 1
    EmployeeInactive uint8 = 2
)

// Employee represents a staff member who can request room bookings.
// The two no-show counters are maintained by independent sweep paths
// and deliberately never merged: NoShowCount feeds the blacklist
// escalation while LateCheckinCount feeds the status deactivation.
// Neither counter is ever decremented automatically.
//
// Fields:
//  SSN             – primary key identifier of the employee.
//  FirstName       – given name.
//  LastName        – family name.
//  PasswordHash    – bcrypt hashed password for dashboard login.
//  Role            – dashboard role name (ADMIN or EMPLOYEE).
//  Status          – eligibility status (active or inactive).
//  NoShowCount     – cumulative no-shows recorded by the expiry sweeper.
//  LockCount       – cumulative blacklist escalations (every 3rd no-show).
//  LateCheckinCount – counter of the alternate late check-in sweep path.
//  DeptNo          – department number.
//  CreatedAt       – timestamp of creation.
type Employee struct {
    SSN              string    // employees.ssn
    FirstName        string    // employees.first_name
    LastName         string    // employees.last_name
    PasswordHash     string    // employees.password_hash
    Role             string    // employees.role
    Status           uint8     // employees.status
    NoShowCount      uint32    // employees.no_show_count
    LockCount        uint32    // employees.lock_count
    LateCheckinCount uint32    // employees.late_checkin_count
    DeptNo           uint32    // employees.dept_no
    CreatedAt        time.Time // employees.created_at
}
