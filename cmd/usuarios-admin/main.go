package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	usuarios "github.com/nikoidev/usuarios-go"
)

func main() {
	var (
		baseURL   = flag.String("base-url", "", "backend base URL, e.g. https://admin.example.com")
		username  = flag.String("username", "", "username to log in with")
		password  = flag.String("password", "", "password; if empty, USUARIOS_PASSWORD env is used")
		redisAddr = flag.String("redis-addr", "", "optional redis address for token persistence")
		timeout   = flag.Duration("timeout", 30*time.Second, "overall command timeout")
		metrics   = flag.Bool("metrics", false, "print session metrics before exiting")
	)
	flag.Parse()

	if *baseURL == "" || *username == "" {
		fmt.Fprintln(os.Stderr, "base-url and username are required")
		flag.Usage()
		os.Exit(2)
	}
	pass := *password
	if pass == "" {
		pass = os.Getenv("USUARIOS_PASSWORD")
	}
	if pass == "" {
		fmt.Fprintln(os.Stderr, "no password given (flag or USUARIOS_PASSWORD)")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	b := usuarios.New().
		WithBaseURL(*baseURL).
		WithMetricsEnabled(*metrics).
		WithSessionListener(usuarios.SessionListenerFunc(func(ev usuarios.SessionEndEvent) {
			fmt.Fprintf(os.Stderr, "session ended: %s\n", ev.Reason)
		}))

	if *redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer rdb.Close()
		b = b.WithRedis(rdb)
	}

	client, err := b.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	user, err := client.Login(ctx, *username, pass)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("logged in as %s (superuser=%v)\n", user.Username, user.IsSuperuser)

	if err := printUsers(ctx, client); err != nil {
		fmt.Fprintf(os.Stderr, "listing users: %v\n", err)
	}
	if err := printRoles(ctx, client); err != nil {
		fmt.Fprintf(os.Stderr, "listing roles: %v\n", err)
	}

	if err := client.Logout(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logout: %v\n", err)
	}

	if *metrics {
		printMetrics(client.MetricsSnapshot())
	}
}

func printUsers(ctx context.Context, client *usuarios.Client) error {
	users, err := client.ListUsers(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("---- users (%d) ----\n", len(users))
	for _, u := range users {
		state := "active"
		if !u.IsActive {
			state = "inactive"
		}
		fmt.Printf("%4d  %-24s %-32s %s\n", u.ID, u.Username, u.Email, state)
	}
	return nil
}

func printRoles(ctx context.Context, client *usuarios.Client) error {
	roles, err := client.ListRoles(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("---- roles (%d) ----\n", len(roles))
	for _, r := range roles {
		names := make([]string, 0, len(r.Permissions))
		for _, p := range r.Permissions {
			names = append(names, p.Name)
		}
		sort.Strings(names)
		fmt.Printf("%4d  %-24s [%s]\n", r.ID, r.Name, strings.Join(names, ", "))
	}
	return nil
}

func printMetrics(snap usuarios.MetricsSnapshot) {
	ids := make([]usuarios.MetricID, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fmt.Println("---- metrics ----")
	for _, id := range ids {
		fmt.Printf("%-20s %d\n", id, snap[id])
	}
}
