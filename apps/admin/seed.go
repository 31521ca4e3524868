package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core/chat"
	"github.com/edumentor/edumentor/core/course"
	"github.com/edumentor/edumentor/core/mentorship"
	"github.com/edumentor/edumentor/core/user"
)

const (
	samplePassword      = "password123"
	sampleAdminPassword = "admin123"
)

type sampleUser struct {
	email, name, role string
	skills, interests []string
	bio               string
}

var sampleUsers = []sampleUser{
	{
		email: "alice.student@example.com", name: "Alice Johnson", role: user.RoleStudent,
		interests: []string{"Web Development", "React", "JavaScript"},
		bio:       "Aspiring full-stack developer passionate about creating user-friendly web applications.",
	},
	{
		email: "bob.learner@example.com", name: "Bob Chen", role: user.RoleStudent,
		interests: []string{"Machine Learning", "Python", "Data Science"},
		bio:       "Computer science student interested in AI and machine learning applications.",
	},
	{
		email: "carol.student@example.com", name: "Carol Martinez", role: user.RoleStudent,
		interests: []string{"Mobile Development", "UI/UX Design", "Flutter"},
		bio:       "Design enthusiast learning mobile app development.",
	},
	{
		email: "david.mentor@example.com", name: "Dr. David Rodriguez", role: user.RoleMentor,
		skills: []string{"React", "Node.js", "JavaScript", "TypeScript", "MongoDB"},
		bio:    "Senior Full-Stack Developer with 8+ years of experience. Former tech lead at Google.",
	},
	{
		email: "emma.expert@example.com", name: "Emma Thompson", role: user.RoleMentor,
		skills: []string{"Python", "Machine Learning", "TensorFlow", "Data Science", "AI"},
		bio:    "AI/ML Engineer and Data Scientist. PhD in Computer Science.",
	},
	{
		email: "frank.fullstack@example.com", name: "Frank Wilson", role: user.RoleMentor,
		skills: []string{"Python", "Django", "Vue.js", "PostgreSQL", "AWS"},
		bio:    "Full-stack developer and startup founder. Built 5+ successful web applications.",
	},
	{email: "admin@edumentor.com", name: "Sarah Admin", role: user.RoleAdmin, bio: "Platform administrator."},
}

type sampleCourse struct {
	title, description, category, level, instructor string
	hours                                           int
	price                                           float64
	tags                                            []string
}

var sampleCourses = []sampleCourse{
	{
		title:       "Complete React Development Bootcamp",
		description: "Master React from basics to advanced concepts. Build real-world projects including a social media app and e-commerce platform.",
		category:    "programming", level: course.LevelBeginner, instructor: "david.mentor@example.com",
		hours: 40, price: 99.99, tags: []string{"react", "javascript", "frontend", "web development"},
	},
	{
		title:       "Machine Learning with Python",
		description: "Learn machine learning algorithms and implement them using Python, scikit-learn, and TensorFlow.",
		category:    "data science", level: course.LevelIntermediate, instructor: "emma.expert@example.com",
		hours: 60, price: 149.99, tags: []string{"python", "machine learning", "ai", "tensorflow"},
	},
	{
		title:       "Full-Stack Web Development with Django & Vue",
		description: "Build modern web applications using Django REST framework and Vue.js.",
		category:    "programming", level: course.LevelAdvanced, instructor: "frank.fullstack@example.com",
		hours: 50, price: 129.99, tags: []string{"django", "vue", "python", "fullstack"},
	},
	{
		title:       "JavaScript Fundamentals",
		description: "Learn the core concepts of JavaScript programming from variables to async/await.",
		category:    "programming", level: course.LevelBeginner, instructor: "david.mentor@example.com",
		hours: 25, tags: []string{"javascript", "programming", "fundamentals"},
	},
	{
		title:       "Data Analysis with Pandas",
		description: "Master data manipulation and analysis using Python's Pandas library.",
		category:    "data science", level: course.LevelIntermediate, instructor: "emma.expert@example.com",
		hours: 30, price: 79.99, tags: []string{"python", "pandas", "data analysis"},
	},
	{
		title:       "UI/UX Design Principles",
		description: "Learn the fundamentals of user interface and user experience design.",
		category:    "design", level: course.LevelBeginner, instructor: "frank.fullstack@example.com",
		hours: 20, price: 59.99, tags: []string{"design", "ui", "ux", "figma"},
	},
}

type sampleSession struct {
	student, mentor, title, description, status string
	in                                          time.Duration
}

var sampleSessions = []sampleSession{
	{
		student: "alice.student@example.com", mentor: "david.mentor@example.com",
		title: "React Hooks Deep Dive", description: "Understanding useState and useEffect",
		status: mentorship.StatusScheduled, in: 2 * 24 * time.Hour,
	},
	{
		student: "bob.learner@example.com", mentor: "emma.expert@example.com",
		title: "Career Guidance in ML", description: "Discussing career paths in machine learning",
		status: mentorship.StatusScheduled, in: 5 * 24 * time.Hour,
	},
	{
		student: "carol.student@example.com", mentor: "frank.fullstack@example.com",
		title: "Portfolio Review", description: "Review of the design portfolio",
		status: mentorship.StatusCompleted, in: -3 * 24 * time.Hour,
	},
}

type sampleMessage struct {
	from, to, text string
}

var sampleMessages = []sampleMessage{
	{from: "alice.student@example.com", to: "david.mentor@example.com", text: "Hi David! I'm struggling with React state management. Could you help?"},
	{from: "david.mentor@example.com", to: "alice.student@example.com", text: "Of course! Let's book a session and go through it together."},
	{from: "bob.learner@example.com", to: "emma.expert@example.com", text: "Thanks for the ML course recommendations!"},
}

// seed loads sample data. Users that already exist are left untouched, and so is their data.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	now := time.Now().UTC()

	ids := make(map[string]string, len(sampleUsers))
	created := make(map[string]bool, len(sampleUsers))
	for _, su := range sampleUsers {
		usr, err := cli.repos.User.GetUser(ctx, user.GetFilter{Email: su.email})
		if err == nil {
			ids[su.email] = usr.ID
			continue
		}
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}

		usr = user.User{
			ID:        uuid.NewString(),
			Email:     su.email,
			FullName:  su.name,
			Role:      su.role,
			Skills:    nonNil(su.skills),
			Interests: nonNil(su.interests),
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if su.bio != "" {
			bio := su.bio
			usr.Bio = &bio
		}
		pwd := samplePassword
		if su.role == user.RoleAdmin {
			pwd = sampleAdminPassword
		}
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		if usr, err = cli.repos.User.CreateUser(ctx, usr); err != nil {
			return errors.Wrapf(err, "creating %s", su.email)
		}
		ids[su.email] = usr.ID
		created[su.email] = true
	}

	var nCourses int
	for _, sc := range sampleCourses {
		if !created[sc.instructor] {
			continue
		}
		c := course.Course{
			ID:            uuid.NewString(),
			Title:         sc.title,
			Description:   sc.description,
			InstructorID:  ids[sc.instructor],
			Category:      sc.category,
			Level:         sc.level,
			DurationHours: sc.hours,
			Price:         sc.price,
			Tags:          sc.tags,
			IsPublished:   true,
			CreatedAt:     now,
		}
		if _, err := cli.repos.Course.CreateCourse(ctx, c); err != nil {
			return errors.Wrapf(err, "creating course %q", sc.title)
		}
		nCourses++
	}

	var nSessions int
	for _, ss := range sampleSessions {
		if !created[ss.student] {
			continue
		}
		desc := ss.description
		s := mentorship.Session{
			ID:              uuid.NewString(),
			MentorID:        ids[ss.mentor],
			StudentID:       ids[ss.student],
			Title:           ss.title,
			Description:     &desc,
			ScheduledAt:     now.Add(ss.in).Truncate(time.Hour),
			DurationMinutes: 60,
			Status:          ss.status,
			CreatedAt:       now,
		}
		if _, err := cli.repos.Session.CreateSession(ctx, s); err != nil {
			return errors.Wrapf(err, "creating session %q", ss.title)
		}
		nSessions++
	}

	var nMessages int
	for i, sm := range sampleMessages {
		if !created[sm.from] {
			continue
		}
		m := chat.Message{
			ID:         uuid.NewString(),
			SenderID:   ids[sm.from],
			ReceiverID: ids[sm.to],
			Message:    sm.text,
			Timestamp:  now.Add(time.Duration(i-len(sampleMessages)) * time.Minute),
		}
		if _, err := cli.repos.Message.CreateMessage(ctx, m); err != nil {
			return errors.Wrap(err, "creating message")
		}
		nMessages++
	}

	logger.Info().
		Int("users", len(created)).
		Int("courses", nCourses).
		Int("sessions", nSessions).
		Int("messages", nMessages).
		Msg("sample data loaded")
	return nil
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
