// siteblogctl is an administration tool for the siteblog database: it
// registers users, assigns passwords, validates logins, and manages posts
// without going through the web layer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/term"

	"github.com/avolkov/siteblog/internal/auth"
	"github.com/avolkov/siteblog/internal/config"
	"github.com/avolkov/siteblog/internal/logger"
	"github.com/avolkov/siteblog/internal/model"
	"github.com/avolkov/siteblog/internal/repository/postgres"
	"github.com/avolkov/siteblog/internal/service"
	storage "github.com/avolkov/siteblog/internal/storage/minio"
	"github.com/avolkov/siteblog/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
)

const usage = `usage: siteblogctl <command> [flags]

commands:
  site-add      create a site
  register      register a user with a local passport
  passwd        assign a local passport to an existing user
  login         validate a login and print a token pair
  post-create   create a post
  post-list     list a site's posts, oldest first
  post-attach   attach an image to a post
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", "error", err)
	}
	defer app.db.Close()

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logger.Fatal("command failed", "command", os.Args[1], "error", err)
	}
}

type app struct {
	cfg    *config.Config
	logger *logger.Logger

	db        *postgres.Connection
	sites     *postgres.SiteRepository
	users     *postgres.UserRepository
	passports *postgres.PassportRepository
	posts     *postgres.PostRepository

	local  *auth.Local
	tokens *service.TokenService
}

func newApp(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*app, error) {
	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		sites:     postgres.NewSiteRepository(db),
		users:     postgres.NewUserRepository(db),
		passports: postgres.NewPassportRepository(db),
		posts:     postgres.NewPostRepository(db),
	}

	a.local = auth.NewLocal(a.users, a.passports, a.sites, logger)

	refreshTokens := postgres.NewRefreshTokenRepository(db)
	a.tokens = service.NewTokenService(token.NewJWT(cfg.JWT.Secret), refreshTokens, logger)

	return a, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "site-add":
		return a.siteAdd(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "passwd":
		return a.passwd(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "post-create":
		return a.postCreate(ctx, args)
	case "post-list":
		return a.postList(ctx, args)
	case "post-attach":
		return a.postAttach(ctx, args)
	case "version":
		fmt.Printf("siteblogctl %s (%s)\n", buildVersion, buildDate)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) siteAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("site-add", flag.ExitOnError)
	name := fs.String("name", "", "site name")
	domain := fs.String("domain", "", "email domain of the site")
	fs.Parse(args)

	site, err := a.sites.Create(ctx, model.Site{ID: uuid.New(), Name: *name, Domain: *domain})
	if err != nil {
		return err
	}

	fmt.Printf("site %s created: %s\n", site.Name, site.ID)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	siteID := fs.String("site", "", "site id")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	fs.Parse(args)

	password, err := readPassword("Enter password: ")
	if err != nil {
		return err
	}

	req := &auth.Request{
		Email:     *email,
		Password:  password,
		FirstName: *firstName,
		LastName:  *lastName,
		SiteID:    parseUUID(*siteID),
		Flash:     &auth.Recorder{},
	}

	user, err := a.local.Register(ctx, req)
	if err != nil {
		reportFlashes(req.Flash)
		return err
	}

	fmt.Printf("user %s registered: %s\n", user.Email, user.ID)
	return nil
}

func (a *app) passwd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	email := fs.String("email", "", "email address of an existing user")
	fs.Parse(args)

	user, err := a.users.GetByEmail(ctx, *email)
	if err != nil {
		return err
	}

	password, err := readPassword("Enter new password: ")
	if err != nil {
		return err
	}

	req := &auth.Request{Password: password, User: &user, Flash: &auth.Recorder{}}
	if _, err := a.local.Connect(ctx, req); err != nil {
		reportFlashes(req.Flash)
		return err
	}

	fmt.Printf("local passport set for %s\n", user.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	identifier := fs.String("identifier", "", "email or username")
	fs.Parse(args)

	password, err := readPassword("Enter password: ")
	if err != nil {
		return err
	}

	req := &auth.Request{Flash: &auth.Recorder{}}
	result, err := a.local.Login(ctx, req, *identifier, password)
	if err != nil {
		return err
	}
	if !result.Authenticated() {
		reportFlashes(req.Flash)
		return fmt.Errorf("login rejected: %s", result.Reason)
	}

	access, refresh, err := a.tokens.Issue(ctx, result.User.ID)
	if err != nil {
		return err
	}

	fmt.Printf("access token:  %s\nrefresh token: %s\n", access, refresh)
	return nil
}

func (a *app) postCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post-create", flag.ExitOnError)
	author := fs.String("author", "", "author user id")
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post content")
	fs.Parse(args)

	posts := service.NewPost(a.posts, a.users, nil, a.logger)
	post, err := posts.CreatePost(ctx, service.CreatePostParams{
		Title:    *title,
		Content:  *content,
		AuthorID: parseUUID(*author),
	})
	if err != nil {
		return err
	}

	fmt.Printf("post created: %s\n", post.ID)
	return nil
}

func (a *app) postList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post-list", flag.ExitOnError)
	siteID := fs.String("site", "", "site id")
	fs.Parse(args)

	posts := service.NewPost(a.posts, a.users, nil, a.logger)
	list, err := posts.ListSitePosts(ctx, parseUUID(*siteID))
	if err != nil {
		return err
	}

	for _, p := range list {
		fmt.Printf("%s  %s  %s\n", p.ID, p.CreatedAt.Format("2006-01-02 15:04"), p.Title)
	}
	return nil
}

func (a *app) postAttach(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post-attach", flag.ExitOnError)
	postID := fs.String("post", "", "post id")
	author := fs.String("author", "", "author user id")
	file := fs.String("file", "", "image file to attach")
	fs.Parse(args)

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	minioClient, err := minio.New(a.cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(a.cfg.Storage.AccessKey, a.cfg.Storage.SecretKey, ""),
		Secure: a.cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, a.cfg.Storage.Bucket)
	if err != nil {
		return fmt.Errorf("failed to initialize storage client: %w", err)
	}

	posts := service.NewPost(a.posts, a.users, storageClient, a.logger)
	post, err := posts.AttachImage(ctx, parseUUID(*postID), parseUUID(*author), *file, f)
	if err != nil {
		return err
	}

	fmt.Printf("image attached: %s\n", post.Images)
	return nil
}

// termReadPassword is a seam so readPassword can be exercised without a tty.
var termReadPassword = term.ReadPassword

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pw, err := termReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if len(pw) == 0 {
		return "", errors.New("empty password")
	}
	return string(pw), nil
}

func parseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func reportFlashes(w auth.FlashWriter) {
	rec, ok := w.(*auth.Recorder)
	if !ok {
		return
	}
	for _, m := range rec.Messages {
		fmt.Fprintf(os.Stderr, "%s: %s\n", m.Severity, m.Key)
	}
}
