package admin

import (
	"strings"
	"time"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/google/uuid"
)

const (
	unknownRole = "unknown"
	unknownName = "Unknown"
)

// TeamMember is one roster row: a profile decorated with its role and its
// own attendance history.
type TeamMember struct {
	UserID     uuid.UUID         `json:"user_id"`
	Name       string            `json:"name"`
	Phone      *string           `json:"phone"`
	Active     bool              `json:"active"`
	JoinedAt   time.Time         `json:"joined_at"`
	Role       string            `json:"role"`
	Attendance []AttendanceEntry `json:"attendance"`
}

// AttendanceEntry is one check-in decorated with the member's name.
type AttendanceEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	PhotoURL  *string   `json:"photo_url"`
	Location  *string   `json:"location"`
	Timestamp time.Time `json:"timestamp_utc"`
}

// Stats summarizes the roster for the overview header.
type Stats struct {
	TotalMembers    int `json:"totalMembers"`
	ActiveMembers   int `json:"activeMembers"`
	TodayAttendance int `json:"todayAttendance"`
}

// Join decorates each profile with its role and attendance rows. It is a
// pure function of its inputs: missing roles default to "unknown" and
// missing attendance defaults to an empty slice.
func Join(profiles []models.Profile, roles []models.UserRole, rows []models.Attendance) []TeamMember {
	roleByUser := make(map[uuid.UUID]string, len(roles))
	for _, r := range roles {
		roleByUser[r.UserID] = r.Role.String()
	}
	nameByUser := namesByUser(profiles)

	attendanceByUser := make(map[uuid.UUID][]AttendanceEntry, len(profiles))
	for _, row := range rows {
		attendanceByUser[row.UserID] = append(attendanceByUser[row.UserID], decorate(row, nameByUser))
	}

	members := make([]TeamMember, 0, len(profiles))
	for _, p := range profiles {
		role, ok := roleByUser[p.UserID]
		if !ok {
			role = unknownRole
		}
		entries := attendanceByUser[p.UserID]
		if entries == nil {
			entries = []AttendanceEntry{}
		}
		members = append(members, TeamMember{
			UserID:     p.UserID,
			Name:       p.Name,
			Phone:      p.Phone,
			Active:     p.Active,
			JoinedAt:   p.JoinedAt,
			Role:       role,
			Attendance: entries,
		})
	}
	return members
}

// DecorateAttendance builds the team-wide attendance feed, naming each row
// from its profile ("Unknown" when no profile matches).
func DecorateAttendance(rows []models.Attendance, profiles []models.Profile) []AttendanceEntry {
	nameByUser := namesByUser(profiles)
	entries := make([]AttendanceEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, decorate(row, nameByUser))
	}
	return entries
}

// ComputeStats counts members and today's check-ins. "Today" matches the
// UTC ISO date prefix of the stored timestamp, not a timezone-aware range.
func ComputeStats(profiles []models.Profile, rows []models.Attendance, today time.Time) Stats {
	stats := Stats{TotalMembers: len(profiles)}
	for _, p := range profiles {
		if p.Active {
			stats.ActiveMembers++
		}
	}

	prefix := today.UTC().Format("2006-01-02")
	for _, row := range rows {
		if strings.HasPrefix(row.TimestampUTC.UTC().Format(time.RFC3339), prefix) {
			stats.TodayAttendance++
		}
	}
	return stats
}

func namesByUser(profiles []models.Profile) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(profiles))
	for _, p := range profiles {
		names[p.UserID] = p.Name
	}
	return names
}

func decorate(row models.Attendance, nameByUser map[uuid.UUID]string) AttendanceEntry {
	name, ok := nameByUser[row.UserID]
	if !ok || name == "" {
		name = unknownName
	}
	return AttendanceEntry{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      name,
		PhotoURL:  row.PhotoURL,
		Location:  row.Location,
		Timestamp: row.TimestampUTC,
	}
}
