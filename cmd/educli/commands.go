package main

import (
	"context"
	"edu_portal/internal/model"
	"edu_portal/internal/service"
	"edu_portal/internal/session"
	"fmt"
	"os"
)

func cmdLogin(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (env EDU_PORTAL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag(fs, "email"); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("EDU_PORTAL_PASSWORD")
	}

	res, err := service.NewAuthService(c.client).Login(ctx, service.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stderr, "logged in as %s (%s)\n", res.User.Name, res.User.Role)
	c.savedNotice()
	return c.print(res.User)
}

func cmdStudentLogin(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("student-login")
	username := fs.String("username", "", "student username")
	password := fs.String("password", "", "password")
	code := fs.String("access-code", "", "class access code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag(fs, "username"); err != nil {
		return err
	}

	res, err := service.NewAuthService(c.client).StudentLogin(ctx, service.StudentLoginRequest{
		Username: *username, Password: *password, AccessCode: *code,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stderr, "student %s logged in\n", res.User.Name)
	c.savedNotice()
	return c.print(res.User)
}

func (c *cli) savedNotice() {
	if c.credPath != "" {
		fmt.Fprintf(c.stderr, "credentials saved to %s\n", c.credPath)
	}
}

func cmdLogout(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("logout")
	studentOnly := fs.Bool("student", false, "only sign out the student")
	if err := fs.Parse(args); err != nil {
		return err
	}
	svc := service.NewAuthService(c.client)
	if *studentOnly {
		return svc.StudentLogout(ctx)
	}
	return svc.Logout(ctx)
}

func cmdWhoami(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("whoami")
	remote := fs.Bool("remote", false, "fetch the profile from the API")
	if err := fs.Parse(args); err != nil {
		return err
	}
	svc := service.NewAuthService(c.client)
	if *remote {
		user, err := svc.Profile(ctx)
		if err != nil {
			return err
		}
		return c.print(user)
	}
	info, err := svc.Session(ctx)
	if err != nil {
		return err
	}
	return c.print(info)
}

func cmdConfigs(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("configs")
	subject := fs.String("subject", "", "filter by subject")
	grade := fs.Int("grade", 0, "filter by grade level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	configs, err := service.NewAssessmentService(c.client).ListConfigs(ctx, service.ConfigFilter{Subject: *subject, GradeLevel: *grade})
	if err != nil {
		return err
	}
	return c.print(configs)
}

func cmdCreateConfig(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("create-config")
	in := model.ConfigInput{}
	fs.StringVar(&in.Name, "name", "", "config name")
	fs.StringVar(&in.Subject, "subject", "", "subject")
	fs.IntVar(&in.GradeLevel, "grade", 0, "grade level (1-12)")
	fs.StringVar(&in.Topic, "topic", "", "topic")
	difficulty := fs.String("difficulty", "", "easy, medium or hard")
	fs.IntVar(&in.QuestionCount, "count", 0, "number of questions")
	fs.StringSliceVar(&in.QuestionTypes, "types", nil, "question types")
	fs.StringSliceVar(&in.DocumentIDs, "documents", nil, "source document ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.Difficulty = model.Difficulty(*difficulty)

	cfg, err := service.NewAssessmentService(c.client).CreateConfig(ctx, in)
	if err != nil {
		return err
	}
	return c.print(cfg)
}

func cmdGenerate(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("generate")
	req := service.GenerateRequest{}
	fs.IntVar(&req.QuestionCount, "count", 0, "override the number of questions")
	fs.StringVar(&req.Instructions, "instructions", "", "extra instructions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("expected one config id")
	}
	qs, err := service.NewAssessmentService(c.client).GenerateQuestions(ctx, fs.Arg(0), req)
	if err != nil {
		return err
	}
	return c.print(qs)
}

func cmdPath(ctx context.Context, c *cli, args []string) error {
	if len(args) == 0 {
		return usagef("expected generate, show or list")
	}
	svc := service.NewLearningPathService(c.client)
	switch args[0] {
	case "generate":
		fs := c.subFlags("path generate")
		req := service.GeneratePathRequest{}
		fs.StringVar(&req.StudentID, "student", "", "student id")
		fs.StringVar(&req.Subject, "subject", "", "subject")
		fs.IntVar(&req.GradeLevel, "grade", 0, "grade level")
		fs.StringVar(&req.Goal, "goal", "", "learning goal")
		fs.StringSliceVar(&req.Documents, "documents", nil, "source document ids")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		p, err := svc.Generate(ctx, req)
		if err != nil {
			return err
		}
		return c.print(p)
	case "show":
		if len(args) != 2 {
			return usagef("expected a learning path id")
		}
		p, err := svc.Get(ctx, args[1])
		if err != nil {
			return err
		}
		return c.print(p)
	case "list":
		if len(args) != 2 {
			return usagef("expected a student id")
		}
		paths, err := svc.ForStudent(ctx, args[1])
		if err != nil {
			return err
		}
		return c.print(paths)
	}
	return usagef("unknown path action %q", args[0])
}

func cmdLesson(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("lesson")
	req := service.LessonRequest{}
	fs.StringVar(&req.LearningPathID, "path", "", "learning path id")
	fs.StringVar(&req.StepID, "step", "", "step id")
	index := fs.Int("index", 0, "step index (from 0)")
	fs.StringVar(&req.Style, "style", "", "presentation style")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.Lookup("index").Changed {
		req.StepIndex = index
	}
	l, err := service.NewLessonService(c.client).GenerateFromStep(ctx, req)
	if err != nil {
		return err
	}
	return c.print(l)
}

func cmdUploadDoc(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("upload-doc")
	subject := fs.String("subject", "", "subject")
	grade := fs.Int("grade", 0, "grade level (1-12)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("expected one file")
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	// 命令行不做本地镜像
	doc, err := service.NewDocumentService(c.client, nil).Upload(ctx, service.UploadDocumentRequest{
		Filename: f.Name(), Reader: f, Subject: *subject, GradeLevel: *grade,
	})
	if err != nil {
		return err
	}
	return c.print(doc)
}

func cmdUploadStudents(ctx context.Context, c *cli, args []string) error {
	if len(args) != 1 {
		return usagef("expected one roster file")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := service.NewStudentService(c.client).UploadRoster(ctx, f.Name(), f)
	if err != nil {
		return err
	}
	return c.print(res)
}

func cmdAnalytics(ctx context.Context, c *cli, args []string) error {
	if len(args) == 0 {
		return usagef("expected teacher, school, class or student")
	}
	svc := service.NewAnalyticsService(c.client)
	var (
		a   *model.AnalyticsSnapshot
		err error
	)
	switch args[0] {
	case "teacher":
		a, err = svc.Teacher(ctx)
	case "school":
		a, err = svc.School(ctx)
	case "class":
		fs := c.subFlags("analytics class")
		classID := fs.String("class", "", "class id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		a, err = svc.Class(ctx, *classID)
	case "student":
		fs := c.subFlags("analytics student")
		progress := fs.Bool("progress", false, "progress view")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return usagef("expected a student id")
		}
		if *progress {
			a, err = svc.StudentProgress(ctx, fs.Arg(0))
		} else {
			a, err = svc.Student(ctx, fs.Arg(0))
		}
	default:
		return usagef("unknown analytics view %q", args[0])
	}
	if err != nil {
		return err
	}
	return c.print(a)
}

func cmdDashboard(ctx context.Context, c *cli, args []string) error {
	if len(args) == 0 {
		return usagef("expected teacher, principal, student or parent")
	}
	fs := c.subFlags("dashboard")
	studentID := fs.String("student", "", "student id")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	svc := service.NewDashboardService(c.client, nil)
	var (
		d   *model.Dashboard
		err error
	)
	switch args[0] {
	case "teacher":
		d, err = svc.Teacher(ctx)
	case "principal":
		d, err = svc.Principal(ctx)
	case "parent":
		d, err = svc.Parent(ctx, *studentID)
	case "student":
		id := *studentID
		if id == "" {
			if id, err = service.CurrentUserID(ctx, c.store, session.RoleStudent); err != nil {
				return err
			}
		}
		d, err = svc.Student(ctx, id)
	default:
		return usagef("unknown dashboard %q", args[0])
	}
	if err != nil {
		return err
	}
	if d.Demo {
		fmt.Fprintln(c.stderr, "warning: some widgets show demo data")
	}
	return c.print(d)
}
