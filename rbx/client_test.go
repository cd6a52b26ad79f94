package rbx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cloud/v2/users/123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte(`{"id":"123","name":"builderman","displayName":"Builderman","about":"hi","createTime":"2006-01-02T15:04:05Z"}`))
	}))
	defer srv.Close()

	c := NewClient("key", "", srv.Client())
	c.CloudBaseURL = srv.URL

	user, err := c.GetUser(context.Background(), "123")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.Name != "builderman" || user.DisplayName != "Builderman" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestGetUserNoKey(t *testing.T) {
	c := NewClient("", "", nil)
	if _, err := c.GetUser(context.Background(), "123"); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestGenerateThumbnailPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"done":false}`))
	}))
	defer srv.Close()

	c := NewClient("key", "", srv.Client())
	c.CloudBaseURL = srv.URL

	uri, err := c.GenerateThumbnail(context.Background(), "123", 420)
	if err != nil {
		t.Fatalf("GenerateThumbnail: %v", err)
	}
	if uri != "" {
		t.Errorf("pending render should yield empty uri, got %q", uri)
	}
}

func TestUserIDFromUsername(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/usernames/users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"id":456}]}`))
	}))
	defer srv.Close()

	c := NewClient("", "", srv.Client())
	c.UsersBaseURL = srv.URL

	id, err := c.UserIDFromUsername(context.Background(), "builderman")
	if err != nil {
		t.Fatalf("UserIDFromUsername: %v", err)
	}
	if id != "456" {
		t.Errorf("id = %q, want 456", id)
	}
}

func TestUserIDFromUsernameMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewClient("", "", srv.Client())
	c.UsersBaseURL = srv.URL

	id, err := c.UserIDFromUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("UserIDFromUsername: %v", err)
	}
	if id != "" {
		t.Errorf("missing user should yield empty id, got %q", id)
	}
}

func TestSearchUsersRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("", "cookie", srv.Client())
	c.UsersBaseURL = srv.URL

	_, err := c.SearchUsers(context.Background(), "builder", 10)
	var rl RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
}

func TestUserRestriction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "cookie" {
			t.Errorf("missing cookie header")
		}
		w.Write([]byte(`{"gameJoinRestriction":{"active":true,"displayReason":"cheating","privateReason":"speed hacks","startTime":"2026-01-01T00:00:00Z"}}`))
	}))
	defer srv.Close()

	c := NewClient("", "cookie", srv.Client())
	c.CloudBaseURL = srv.URL

	restriction, err := c.UserRestriction(context.Background(), 42, "123")
	if err != nil {
		t.Fatalf("UserRestriction: %v", err)
	}
	if !restriction.Active || restriction.DisplayReason != "cheating" {
		t.Errorf("unexpected restriction: %+v", restriction)
	}
}

func TestUserRestrictionNoCookie(t *testing.T) {
	c := NewClient("", "", nil)
	if _, err := c.UserRestriction(context.Background(), 42, "123"); err == nil {
		t.Fatal("expected error without cookie")
	}
}

func TestForumPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/groups/7/forums/chan/posts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"id":1,"name":"ban appeal","createdBy":9,"createdAt":"2026-08-30T00:00:00Z","firstComment":{"content":{"plainText":"please unban me"}}}]}`))
	}))
	defer srv.Close()

	c := NewClient("", "cookie", srv.Client())
	c.GroupsBaseURL = srv.URL

	posts, err := c.ForumPosts(context.Background(), 7, "chan")
	if err != nil {
		t.Fatalf("ForumPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].Name != "ban appeal" {
		t.Errorf("unexpected posts: %+v", posts)
	}
	if posts[0].FirstComment.Content.PlainText != "please unban me" {
		t.Errorf("unexpected first comment: %+v", posts[0])
	}
}

func TestBloxlink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token" {
			t.Errorf("missing authorization header")
		}
		w.Write([]byte(`{"robloxID":"789"}`))
	}))
	defer srv.Close()

	c := NewBloxlinkClient("token", srv.Client())
	c.BaseURL = srv.URL

	id, err := c.RobloxIDForDiscord(context.Background(), "1000")
	if err != nil {
		t.Fatalf("RobloxIDForDiscord: %v", err)
	}
	if id != "789" {
		t.Errorf("id = %q, want 789", id)
	}
}

func TestBloxlinkNotLinked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"user not linked"}`))
	}))
	defer srv.Close()

	c := NewBloxlinkClient("token", srv.Client())
	c.BaseURL = srv.URL

	if _, err := c.RobloxIDForDiscord(context.Background(), "1000"); err == nil {
		t.Fatal("expected error for unlinked user")
	}
}
