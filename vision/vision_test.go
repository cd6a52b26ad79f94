package vision

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLocalizeObjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images:annotate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "key" {
			t.Errorf("missing api key")
		}
		w.Write([]byte(`{"responses":[{"localizedObjectAnnotations":[{"name":"Cat","score":0.92},{"name":"Couch","score":0.7}]}]}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.Client())
	c.BaseURL = srv.URL

	objects, err := c.LocalizeObjects(context.Background(), []byte("fake image"))
	if err != nil {
		t.Fatalf("LocalizeObjects: %v", err)
	}
	if len(objects) != 2 || objects[0].Name != "Cat" {
		t.Errorf("unexpected objects: %+v", objects)
	}
	if !HasCat(objects) {
		t.Error("HasCat = false, want true")
	}
}

func TestLocalizeObjectsUnconfigured(t *testing.T) {
	c := NewClient("", nil)
	if _, err := c.LocalizeObjects(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestHasCat(t *testing.T) {
	if HasCat([]Object{{Name: "Dog", Score: 0.99}}) {
		t.Error("dog counted as cat")
	}
	if HasCat([]Object{{Name: "Cat", Score: 0.3}}) {
		t.Error("low-confidence cat counted")
	}
	if !HasCat([]Object{{Name: "cat", Score: 0.51}}) {
		t.Error("lowercase cat not counted")
	}
}
