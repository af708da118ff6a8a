package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vlogit/core/internal/models"
	"github.com/vlogit/core/internal/posts"
)

const commandList = "register, login, login-federated, logout, whoami, profile, avatar, friends, post, feed, posts, prompt, comment"

// command runs one CLI action against the wired services and prints JSON to out.
type command func(ctx context.Context, svc services, args []string, out io.Writer) error

var commands = map[string]command{
	"register":        cmdRegister,
	"login":           cmdLogin,
	"login-federated": cmdLoginFederated,
	"logout":          cmdLogout,
	"whoami":          cmdWhoami,
	"profile":         cmdProfile,
	"avatar":          cmdAvatar,
	"friends":         cmdFriends,
	"post":            cmdPost,
	"feed":            cmdFeed,
	"posts":           cmdPosts,
	"prompt":          cmdPrompt,
	"comment":         cmdComment,
}

func cmdRegister(ctx context.Context, svc services, args []string, out io.Writer) error {
	if len(args) < 3 {
		return errors.New("usage: register <email> <password> <name>")
	}
	sess, err := svc.accounts.Register(ctx, args[0], args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	return printJSON(out, public(sess.User))
}

func cmdLogin(ctx context.Context, svc services, args []string, out io.Writer) error {
	if len(args) != 2 {
		return errors.New("usage: login <email> <password>")
	}
	sess, err := svc.accounts.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	return printJSON(out, public(sess.User))
}

func cmdLoginFederated(ctx context.Context, svc services, _ []string, out io.Writer) error {
	sess, err := svc.accounts.LoginFederated(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, public(sess.User))
}

func cmdLogout(ctx context.Context, svc services, _ []string, out io.Writer) error {
	if err := svc.accounts.Logout(ctx); err != nil {
		return err
	}
	return printJSON(out, map[string]string{"status": "signed out"})
}

func cmdWhoami(ctx context.Context, svc services, _ []string, out io.Writer) error {
	sess, err := svc.accounts.Current(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, public(sess.User))
}

func cmdProfile(ctx context.Context, svc services, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	bio := fs.String("bio", "", "short bio")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	sess, err := svc.accounts.Current(ctx)
	if err != nil {
		return err
	}
	updated := models.UserProfile{Name: *name, Email: *email, Bio: sess.User.Bio}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "bio" {
			updated.Bio = *bio
		}
	})
	sess, err = svc.accounts.UpdateProfile(ctx, sess, updated)
	if err != nil {
		return err
	}
	return printJSON(out, public(sess.User))
}

func cmdAvatar(ctx context.Context, svc services, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: avatar <image-file>")
	}
	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read avatar: %w", err)
	}
	sess, err := svc.accounts.Current(ctx)
	if err != nil {
		return err
	}
	sess, err = svc.accounts.UpdateAvatar(ctx, sess, image)
	if err != nil {
		return err
	}
	return printJSON(out, public(sess.User))
}

func cmdFriends(ctx context.Context, svc services, args []string, out io.Writer) error {
	sess, err := svc.accounts.Current(ctx)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		if args[0] != "add" || len(args) != 2 {
			return errors.New("usage: friends [add <code>]")
		}
		friend, err := svc.friends.AddByCode(ctx, sess, args[1])
		if err != nil {
			return err
		}
		return printJSON(out, friend)
	}

	list, err := svc.friends.List(ctx, sess)
	if err != nil {
		return err
	}
	summary, err := svc.friends.Summary(ctx, sess)
	if err != nil {
		return err
	}
	return printJSON(out, map[string]any{"friends": list, "summary": summary})
}

func cmdPost(ctx context.Context, svc services, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("post", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "prompt title")
	caption := fs.String("caption", "", "caption")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("post: %w", err)
	}
	if fs.NArg() != 1 {
		return errors.New("usage: post [-title t] [-caption c] <video-file>")
	}

	video, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read video: %w", err)
	}
	sess, err := svc.accounts.Current(ctx)
	if err != nil {
		return err
	}
	result, err := svc.posts.Publish(ctx, sess, posts.PublishInput{Video: video, PromptTitle: *title, Caption: *caption})
	if err != nil {
		return err
	}
	return printJSON(out, map[string]any{
		"post":    result.Post,
		"comment": result.Comment,
		"streak":  result.Session.User.Streak,
	})
}

func cmdFeed(ctx context.Context, svc services, _ []string, out io.Writer) error {
	feed, err := svc.posts.Feed(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, feed)
}

func cmdPosts(ctx context.Context, svc services, args []string, out io.Writer) error {
	sess, err := svc.accounts.Current(ctx)
	if err != nil {
		return err
	}

	sub := "mine"
	if len(args) > 0 {
		sub = args[0]
	}
	switch {
	case sub == "mine":
		mine, err := svc.posts.ListByUser(ctx, sess.UserID())
		if err != nil {
			return err
		}
		return printJSON(out, mine)
	case sub == "stats":
		stats, err := svc.posts.Stats(ctx, sess)
		if err != nil {
			return err
		}
		return printJSON(out, stats)
	case sub == "delete" && len(args) == 2:
		if err := svc.posts.Delete(ctx, sess, args[1]); err != nil {
			return err
		}
		return printJSON(out, map[string]string{"deleted": args[1]})
	default:
		return errors.New("usage: posts [mine|stats|delete <id>]")
	}
}

func cmdPrompt(ctx context.Context, svc services, _ []string, out io.Writer) error {
	return printJSON(out, svc.prompts.DailyPrompt(ctx))
}

func cmdComment(ctx context.Context, svc services, args []string, out io.Writer) error {
	return printJSON(out, map[string]string{"comment": svc.prompts.Comment(ctx, strings.Join(args, " "))})
}

// public strips the password hash before a profile is printed.
func public(user models.UserProfile) models.UserProfile {
	user.PasswordHash = ""
	return user
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
