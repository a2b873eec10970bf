package main

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/session"
	"edu_portal/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultAPIBaseURL = "http://localhost:8000/api"

type cli struct {
	client *apiclient.Client
	store  *session.Store
	stdout io.Writer
	stderr io.Writer
	// credPath 凭证文件位置，--ephemeral 时为空
	credPath string
}

type command struct {
	usage string
	run   func(ctx context.Context, c *cli, args []string) error
}

var commands = map[string]command{
	"login":           {"login --email <email> [--password <pw>]", cmdLogin},
	"student-login":   {"student-login --username <name> (--password <pw> | --access-code <code>)", cmdStudentLogin},
	"logout":          {"logout [--student]", cmdLogout},
	"whoami":          {"whoami [--remote]", cmdWhoami},
	"configs":         {"configs [--subject <s>] [--grade <n>]", cmdConfigs},
	"create-config":   {"create-config --subject <s> --grade <n> [--name --topic --difficulty --count]", cmdCreateConfig},
	"generate":        {"generate <config-id> [--count <n>] [--instructions <text>]", cmdGenerate},
	"path":            {"path (generate --student <id> --subject <s> | show <id> | list <student-id>)", cmdPath},
	"lesson":          {"lesson --path <id> (--step <id> | --index <n>) [--style <s>]", cmdLesson},
	"upload-doc":      {"upload-doc <file> --subject <s> --grade <n>", cmdUploadDoc},
	"upload-students": {"upload-students <file.csv|file.xlsx>", cmdUploadStudents},
	"analytics":       {"analytics (teacher | school | class [--class <id>] | student <id> [--progress])", cmdAnalytics},
	"dashboard":       {"dashboard (teacher | principal | student | parent) [--student <id>]", cmdDashboard},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".edu_portal", "credentials.json")
	}
	return filepath.Join(home, ".edu_portal", "credentials.json")
}

// run 解析全局参数后分发到子命令，返回进程退出码
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("educli", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.String("api", "", "API base URL (env EDU_PORTAL_API_BASE_URL)")
	fs.String("credentials", defaultCredentialsPath(), "credential file")
	fs.String("passphrase", "", "seal the credential file with this passphrase (env EDU_PORTAL_PASSPHRASE)")
	fs.Bool("ephemeral", false, "keep credentials in memory only")
	fs.Duration("timeout", 30*time.Second, "request timeout")
	verbose := fs.BoolP("verbose", "v", false, "log requests to stderr")
	fs.Usage = func() { usage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	v := viper.New()
	v.SetEnvPrefix("EDU_PORTAL")
	v.SetDefault("api_base_url", defaultAPIBaseURL)
	v.BindEnv("api_base_url")
	v.BindEnv("passphrase")
	v.BindPFlag("credentials", fs.Lookup("credentials"))
	v.BindPFlag("ephemeral", fs.Lookup("ephemeral"))
	v.BindPFlag("timeout", fs.Lookup("timeout"))
	if f := fs.Lookup("api"); f.Changed {
		v.Set("api_base_url", f.Value.String())
	}
	if f := fs.Lookup("passphrase"); f.Changed {
		v.Set("passphrase", f.Value.String())
	}

	logger.InitConsoleLogger(*verbose)
	defer logger.Log.Sync()

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr, fs)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", rest[0])
		usage(stderr, fs)
		return 2
	}

	var (
		storage  session.Storage = session.NewMemoryStorage()
		credPath string
	)
	if !v.GetBool("ephemeral") {
		fileStorage := session.NewFileStorage(v.GetString("credentials"), v.GetString("passphrase"))
		storage, credPath = fileStorage, fileStorage.Path()
	}
	store := session.NewStore(storage)
	c := &cli{
		client:   apiclient.New(v.GetString("api_base_url"), store, apiclient.WithTimeout(v.GetDuration("timeout"))),
		store:    store,
		stdout:   stdout,
		stderr:   stderr,
		credPath: credPath,
	}

	if err := cmd.run(ctx, c, rest[1:]); err != nil {
		return c.fail(err, cmd.usage)
	}
	return 0
}

// fail 经 ErrorNormalizer 输出错误；会话失效时提示重新登录
func (c *cli) fail(err error, usageLine string) int {
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(c.stderr, "%s\nusage: educli %s\n", usageErr.msg, usageLine)
		return 2
	}
	var relogin bool
	msg := apiclient.NewErrorNormalizer(func(string) { relogin = true }).Message(err)
	fmt.Fprintln(c.stderr, "error:", msg)
	if relogin {
		fmt.Fprintln(c.stderr, `run "educli login" or "educli student-login" first`)
	}
	return 1
}

type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func (c *cli) print(v interface{}) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: educli [global flags] <command> [args]")
	fmt.Fprintln(w, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(w, "\nglobal flags:")
	fmt.Fprint(w, fs.FlagUsages())
}

// subFlags 子命令参数，错误输出到 stderr
func (c *cli) subFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func requireFlag(fs *pflag.FlagSet, names ...string) error {
	var missing []string
	for _, n := range names {
		if !fs.Lookup(n).Changed {
			missing = append(missing, "--"+n)
		}
	}
	if len(missing) > 0 {
		return usagef("missing %s", strings.Join(missing, ", "))
	}
	return nil
}
