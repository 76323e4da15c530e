package repository

import (
	"fmt"
	"time"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
)

// Catalog is the hard-coded data a store starts with. Every call to
// DefaultCatalog returns fresh slices so stores never share backing arrays.
type Catalog struct {
	Alerts    []models.Alert
	Intake    []models.Alert
	Disasters []models.DisasterRecord
	Zones     []models.Zone
	Tasks     []models.VolunteerTask
	Profiles  []models.VolunteerProfile
	Roster    []models.Volunteer
	Requests  []models.ReliefRequest
}

// Validate rejects a catalog holding an alert that breaks the alert rules,
// such as a fake alert with a priority.
func (c Catalog) Validate() error {
	for _, set := range [][]models.Alert{c.Alerts, c.Intake} {
		for i := range set {
			if err := set[i].Validate(); err != nil {
				return fmt.Errorf("invalid catalog: %w", err)
			}
		}
	}
	return nil
}

const (
	DefaultProfileID = "vol-123456"
	SampleRequestID  = "REQ-123456"
)

func DefaultCatalog() Catalog {
	return Catalog{
		Alerts:    seedAlerts(),
		Intake:    seedIntake(),
		Disasters: seedDisasters(),
		Zones:     seedZones(),
		Tasks:     seedTasks(),
		Profiles:  []models.VolunteerProfile{seedProfile()},
		Roster:    seedRoster(),
		Requests:  []models.ReliefRequest{seedRequest()},
	}
}

func seedAlerts() []models.Alert {
	return []models.Alert{
		{ID: 1, Source: models.SourceTwitter, Text: "Building collapsed on Main St & 5th Ave. At least 10 people trapped inside. Please send help! #earthquake #emergency", Timestamp: "10 mins ago", Status: models.StatusVerified, Confidence: 92, Priority: models.PriorityHigh, Location: "Main St & 5th Ave, Los Angeles"},
		{ID: 2, Source: models.SourceWhatsApp, Text: "Flood water is rising rapidly in our neighborhood. Families stranded on rooftops. Need boats urgently.", Timestamp: "25 mins ago", Status: models.StatusVerified, Confidence: 89, Priority: models.PriorityCritical, Location: "Riverside District, Chennai, India"},
		{ID: 3, Source: models.SourceSMS, Text: "Fire spreading through forest near residential area. Strong winds pushing it toward houses.", Timestamp: "42 mins ago", Status: models.StatusVerified, Confidence: 95, Priority: models.PriorityHigh, Location: "Northern Hills, California"},
		{ID: 4, Source: models.SourceTwitter, Text: "OMG! Did you see that giant lizard attacking the city?! #godzilla #emergency", Timestamp: "55 mins ago", Status: models.StatusFake, Confidence: 98, Priority: models.PriorityNone, Location: "Unknown"},
		{ID: 5, Source: models.SourceFacebook, Text: "Hospital generator failed. Multiple patients on life support need immediate power backup.", Timestamp: "1 hour ago", Status: models.StatusVerified, Confidence: 97, Priority: models.PriorityCritical, Location: "Memorial Hospital, Miami"},
		{ID: 6, Source: models.SourceWhatsApp, Text: "Emergency shelter at Central High School is at capacity. Need additional space for evacuees.", Timestamp: "1.5 hours ago", Status: models.StatusVerified, Confidence: 87, Priority: models.PriorityMedium, Location: "Downtown District, Houston"},
		{ID: 7, Source: models.SourceSMS, Text: "Tornado just passed through. Multiple homes destroyed. People missing.", Timestamp: "2 hours ago", Status: models.StatusVerified, Confidence: 94, Priority: models.PriorityHigh, Location: "Eastern County, Oklahoma"},
	}
}

func seedIntake() []models.Alert {
	return []models.Alert{
		{ID: 1, Source: models.SourceTwitter, Text: "Urgent! Flooding in Kurla East area. Multiple families trapped on rooftops. Need immediate rescue. #MumbaiFloods", Timestamp: "10 minutes ago", Status: models.StatusPending, Priority: models.PriorityNone, Location: "Kurla East, Mumbai"},
		{ID: 2, Source: models.SourceWhatsApp, Text: "Building collapsed at Sion Circle. At least 5 people trapped under debris. Need urgent help!", Timestamp: "15 minutes ago", Status: models.StatusPending, Priority: models.PriorityNone, Location: "Sion, Mumbai"},
		{ID: 3, Source: models.SourceSMS, Text: "HELP FLOOD. Water level rising rapidly in Dharavi. Family of 6 stranded.", Timestamp: "22 minutes ago", Status: models.StatusPending, Priority: models.PriorityNone, Location: "Dharavi, Mumbai"},
		{ID: 4, Source: models.SourceTwitter, Text: "Urgent help needed! Flooding in Kurla area with families trapped on rooftops! #MumbaiRains", Timestamp: "25 minutes ago", Status: models.StatusPending, Priority: models.PriorityNone, Location: "Kurla, Mumbai"},
		{ID: 5, Source: models.SourceWhatsApp, Text: "Road completely blocked at Andheri subway due to waterlogging. Cars stranded.", Timestamp: "30 minutes ago", Status: models.StatusPending, Priority: models.PriorityNone, Location: "Andheri, Mumbai"},
		{ID: 101, Source: models.SourceTwitter, Text: "Multiple families trapped in Chembur due to landslide. Need immediate evacuation.", Timestamp: "45 minutes ago", Status: models.StatusVerified, Confidence: 98, Priority: models.PriorityHigh, Location: "Chembur, Mumbai"},
		{ID: 102, Source: models.SourceWhatsApp, Text: "Medical emergency at Goregaon shelter. Elderly person needs oxygen support urgently.", Timestamp: "1 hour ago", Status: models.StatusVerified, Confidence: 95, Priority: models.PriorityHigh, Location: "Goregaon, Mumbai"},
		{ID: 103, Source: models.SourceSMS, Text: "HELP FLOOD. Water entered ground floor of Sai Krupa building. 20+ residents moved to terrace.", Timestamp: "1.5 hours ago", Status: models.StatusVerified, Confidence: 92, Priority: models.PriorityMedium, Location: "Santacruz, Mumbai"},
		{ID: 201, Source: models.SourceTwitter, Text: "Aliens have landed in Mumbai and are causing the floods! Government hiding the truth! #ConspiracyAlert", Timestamp: "2 hours ago", Status: models.StatusFake, Confidence: 99, Priority: models.PriorityNone, Location: "Unknown", Reason: "Misinformation"},
		{ID: 202, Source: models.SourceWhatsApp, Text: "Urgent! Flooding in Kurla East area. Multiple families trapped on rooftops. Need immediate rescue.", Timestamp: "2.5 hours ago", Status: models.StatusDuplicate, Confidence: 97, Priority: models.PriorityNone, Location: "Kurla East, Mumbai", DuplicateOf: 1, Reason: "Duplicate of alert #1"},
	}
}

func seedDisasters() []models.DisasterRecord {
	return []models.DisasterRecord{
		{ID: 1, Name: "Coastal Flooding", Location: "Mumbai, India", Type: "flood", Severity: models.SeverityHigh, Affected: 15000, Teams: 24, Supplies: "120 tons", ResourceAllocation: 70},
		{ID: 2, Name: "Forest Fire", Location: "California, USA", Type: "fire", Severity: models.SeverityMedium, Affected: 7500, Teams: 35, Supplies: "82 tons", ResourceAllocation: 50},
		{ID: 3, Name: "Earthquake", Location: "Tokyo, Japan", Type: "earthquake", Severity: models.SeverityHigh, Affected: 28000, Teams: 47, Supplies: "205 tons", ResourceAllocation: 85},
		{ID: 4, Name: "Cyclone", Location: "Chennai, India", Type: "storm", Severity: models.SeverityCritical, Affected: 32000, Teams: 56, Supplies: "270 tons", ResourceAllocation: 90},
		{ID: 5, Name: "Landslide", Location: "Nepal", Type: "landslide", Severity: models.SeverityMedium, Affected: 5200, Teams: 18, Supplies: "65 tons", ResourceAllocation: 40},
	}
}

func seedZones() []models.Zone {
	return []models.Zone{
		{ID: 1, Name: "Flood Zone Alpha", Type: "flood", Latitude: 28.6139, Longitude: 77.2090, Severity: models.SeverityHigh, Affected: 5000},
		{ID: 2, Name: "Earthquake Site Beta", Type: "earthquake", Latitude: 19.0760, Longitude: 72.8777, Severity: models.SeverityCritical, Affected: 12000},
		{ID: 3, Name: "Cyclone Path Delta", Type: "cyclone", Latitude: 22.5726, Longitude: 88.3639, Severity: models.SeverityMedium, Affected: 8000},
		{ID: 4, Name: "Landslide Area Gamma", Type: "landslide", Latitude: 30.7333, Longitude: 76.7794, Severity: models.SeverityHigh, Affected: 2000},
		{ID: 5, Name: "Wildfire Zone Epsilon", Type: "fire", Latitude: 26.9124, Longitude: 75.7873, Severity: models.SeverityMedium, Affected: 1500},
	}
}

func seedTasks() []models.VolunteerTask {
	return []models.VolunteerTask{
		{ID: "task-001", Title: "Medical Support", Description: "Provide medical assistance at the downtown relief center. Looking for trained medical professionals to help with basic health checks and first aid.", Location: "Downtown Relief Center, San Francisco", Date: "2023-08-15", DurationHours: 4, RequiredSkills: []string{"Medical", "First Aid"}, VolunteersNeeded: 5, VolunteersAssigned: 2, Urgency: models.UrgencyHigh, Status: "active", Coordinator: "Dr. Sarah Chen"},
		{ID: "task-002", Title: "Supply Distribution", Description: "Help distribute food, water, and essential supplies to affected families. Tasks include organizing supplies, creating care packages, and distribution.", Location: "Eastside Community Center, Oakland", Date: "2023-08-22", DurationHours: 6, RequiredSkills: []string{"Organization", "Communication"}, VolunteersNeeded: 10, VolunteersAssigned: 4, Urgency: models.UrgencyMedium, Status: "active", Coordinator: "Michael Rodriguez"},
		{ID: "task-003", Title: "Evacuation Assistance", Description: "Assist with evacuation procedures in flood-affected areas. Help residents safely evacuate and transport to designated shelters.", Location: "Riverside District, Sacramento", Date: "2023-08-10", DurationHours: 8, RequiredSkills: []string{"Transportation", "Crisis Management"}, VolunteersNeeded: 8, VolunteersAssigned: 6, Urgency: models.UrgencyCritical, Status: "active", Coordinator: "Captain James Wilson"},
		{ID: "task-004", Title: "Shelter Setup", Description: "Help set up temporary shelters for displaced residents. Tasks include arranging beds, organizing living spaces, and setting up basic amenities.", Location: "North High School, San Jose", Date: "2023-08-18", DurationHours: 5, RequiredSkills: []string{"Physical Labor", "Organization"}, VolunteersNeeded: 12, VolunteersAssigned: 3, Urgency: models.UrgencyHigh, Status: "active", Coordinator: "Lisa Thompson"},
		{ID: "task-005", Title: "Child Care Support", Description: "Provide care and activities for children at the family relief center while parents work with relief coordinators.", Location: "Family Relief Center, Palo Alto", Date: "2023-08-25", DurationHours: 4, RequiredSkills: []string{"Childcare", "Education"}, VolunteersNeeded: 6, VolunteersAssigned: 2, Urgency: models.UrgencyMedium, Status: "active", Coordinator: "Emily Parker"},
		{ID: "task-006", Title: "Damage Assessment", Description: "Assist with preliminary damage assessment in affected neighborhoods. Document damage to homes and infrastructure to help with relief planning.", Location: "Various Locations, Bay Area", Date: "2023-08-12", DurationHours: 6, RequiredSkills: []string{"Documentation", "Assessment"}, VolunteersNeeded: 8, VolunteersAssigned: 5, Urgency: models.UrgencyHigh, Status: "active", Coordinator: "Robert Chang"},
	}
}

func seedProfile() models.VolunteerProfile {
	return models.VolunteerProfile{
		ID:                 DefaultProfileID,
		FirstName:          "Alex",
		LastName:           "Johnson",
		Email:              "alex.johnson@example.com",
		Phone:              "+1 (555) 123-4567",
		Location:           "San Francisco, CA",
		JoinDate:           "2023-05-15",
		Bio:                "Emergency medical technician with 5+ years of experience. Passionate about helping communities in crisis and providing medical support during disasters.",
		Skills:             []string{"Medical Aid", "First Response", "Search & Rescue", "Communication"},
		Availability:       "Weekends & Emergencies",
		VerificationStatus: "verified",
		CompletedMissions:  12,
		HoursContributed:   156,
		Certifications: []models.Certification{
			{Name: "First Aid & CPR", Issuer: "Red Cross", Date: "2022-03-10", Expires: "2024-03-10"},
			{Name: "Disaster Response", Issuer: "FEMA", Date: "2021-11-05", Expires: "2023-11-05"},
		},
	}
}

func seedRoster() []models.Volunteer {
	return []models.Volunteer{
		{ID: 1, Name: "Rahul Sharma", Email: "rahul.sharma@example.com", Phone: "+91 9876543210", Location: "New Delhi, India", Skills: []string{"Medical", "First Aid", "Driving"}, Availability: "Weekends", Experience: "3 years", Status: models.VolunteerActive, Tasks: 12, CompletedTasks: 10, JoinedDate: "2023-01-15"},
		{ID: 2, Name: "Priya Patel", Email: "priya.patel@example.com", Phone: "+91 9876543211", Location: "Mumbai, India", Skills: []string{"Communication", "Coordination", "Languages"}, Availability: "Full-time", Experience: "1 year", Status: models.VolunteerActive, Tasks: 8, CompletedTasks: 8, JoinedDate: "2023-03-22"},
		{ID: 3, Name: "Vikram Singh", Email: "vikram.singh@example.com", Phone: "+91 9876543212", Location: "Jaipur, India", Skills: []string{"Heavy Machinery", "Rescue", "Swimming"}, Availability: "On-call", Experience: "5 years", Status: models.VolunteerActive, Tasks: 20, CompletedTasks: 18, JoinedDate: "2022-11-05"},
		{ID: 4, Name: "Ananya Gupta", Email: "ananya.gupta@example.com", Phone: "+91 9876543213", Location: "Bangalore, India", Skills: []string{"Medical", "Counseling", "Administration"}, Availability: "Evenings", Experience: "2 years", Status: models.VolunteerInactive, Tasks: 15, CompletedTasks: 12, JoinedDate: "2023-02-18"},
		{ID: 5, Name: "Arjun Kumar", Email: "arjun.kumar@example.com", Phone: "+91 9876543214", Location: "Chennai, India", Skills: []string{"Logistics", "Driving", "Heavy Lifting"}, Availability: "Weekdays", Experience: "4 years", Status: models.VolunteerActive, Tasks: 18, CompletedTasks: 15, JoinedDate: "2022-12-10"},
		{ID: 6, Name: "Neha Verma", Email: "neha.verma@example.com", Phone: "+91 9876543215", Location: "Kolkata, India", Skills: []string{"Teaching", "Child Care", "First Aid"}, Availability: "Weekends", Experience: "3 years", Status: models.VolunteerPending, Tasks: 0, CompletedTasks: 0, JoinedDate: "2023-05-30"},
		{ID: 7, Name: "Rajesh Khanna", Email: "rajesh.khanna@example.com", Phone: "+91 9876543216", Location: "Hyderabad, India", Skills: []string{"Engineering", "Construction", "Planning"}, Availability: "Full-time", Experience: "7 years", Status: models.VolunteerActive, Tasks: 25, CompletedTasks: 23, JoinedDate: "2022-09-15"},
		{ID: 8, Name: "Meera Reddy", Email: "meera.reddy@example.com", Phone: "+91 9876543217", Location: "Pune, India", Skills: []string{"Cooking", "Distribution", "Management"}, Availability: "Weekdays", Experience: "2 years", Status: models.VolunteerInactive, Tasks: 10, CompletedTasks: 7, JoinedDate: "2023-01-20"},
	}
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedRequest() models.ReliefRequest {
	return models.ReliefRequest{
		ID:      SampleRequestID,
		Status:  models.ReliefInProgress,
		Type:    "food",
		Urgency: models.UrgencyMedium,
		Contact: models.Contact{
			Name:  "John Doe",
			Phone: "+1 (555) 123-4567",
			Email: "john.doe@example.com",
		},
		Location: models.ReliefLocation{
			Area:    "San Francisco, CA",
			Address: "123 Main St, Apt 4B, San Francisco, CA 94103",
		},
		PeopleCount:         3,
		SpecialNeeds:        true,
		SpecialNeedsDetails: "One elderly person with mobility issues requiring assistance.",
		Description:         "We need food and water supplies for our family of three. We have been without power for two days and our food supplies are running low.",
		AssignedTeam:        "Team Alpha",
		EstimatedDelivery:   "2023-08-14",
		Timeline: []models.TimelineEntry{
			{Date: mustTime("2023-08-10T14:30:00Z"), Status: models.ReliefSubmitted, Description: "Request submitted and received by the system."},
			{Date: mustTime("2023-08-10T15:45:00Z"), Status: models.ReliefUnderReview, Description: "Request is being reviewed by relief coordinators."},
			{Date: mustTime("2023-08-11T10:20:00Z"), Status: models.ReliefApproved, Description: "Request approved. Relief package is being prepared."},
			{Date: mustTime("2023-08-12T09:15:00Z"), Status: models.ReliefInProgress, Description: "Relief package has been assigned to Team Alpha for delivery."},
		},
		Items: []models.ReliefItem{
			{Name: "Bottled Water", Quantity: "24 bottles", Status: "packed"},
			{Name: "Non-perishable Food", Quantity: "1 week supply", Status: "packed"},
			{Name: "First Aid Kit", Quantity: "1", Status: "packed"},
			{Name: "Blankets", Quantity: "3", Status: "pending"},
			{Name: "Hygiene Kit", Quantity: "3", Status: "packed"},
		},
		Notes: []models.ReliefNote{
			{Date: mustTime("2023-08-11T11:30:00Z"), Author: "Relief Coordinator", Text: "Added extra water supplies due to reported water outage in the area."},
			{Date: mustTime("2023-08-12T09:20:00Z"), Author: "Logistics Team", Text: "Delivery route planned. Estimated arrival on August 14th between 10 AM and 2 PM."},
		},
		CreatedAt: mustTime("2023-08-10T14:30:00Z"),
		UpdatedAt: mustTime("2023-08-12T09:15:00Z"),
	}
}
