package mailchimp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriberHash(t *testing.T) {
	// Mailchimp keys members by MD5 of the lowercased address
	assert.Equal(t, SubscriberHash("User@Example.COM"), SubscriberHash("user@example.com"))
	assert.Equal(t, "b58996c504c5638798eb6b511e6f49af", SubscriberHash("user@example.com"))
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient("key-us21", "aud123", "us21").WithAPIBase(srv.URL)
}

func TestUpsertMemberCreatesWhenAbsent(t *testing.T) {
	hash := SubscriberHash("new@example.com")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/lists/aud123/members/"+hash:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"title":"Resource Not Found","status":404}`))
		case r.Method == http.MethodPost && r.URL.Path == "/lists/aud123/members":
			var body memberRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "new@example.com", body.EmailAddress)
			assert.Equal(t, "subscribed", body.Status)
			assert.Equal(t, "Asha", body.MergeFields["FNAME"])
			w.Write([]byte(`{"id":"` + hash + `","email_address":"new@example.com","status":"subscribed"}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	member, err := newTestClient(srv).UpsertMember(context.Background(), "new@example.com", "Asha")
	assert.NoError(t, err)
	assert.Equal(t, hash, member.ID)
	assert.False(t, member.AlreadySubscribed)
}

func TestUpsertMemberAlreadySubscribed(t *testing.T) {
	hash := SubscriberHash("existing@example.com")
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"id":"` + hash + `","email_address":"existing@example.com","status":"subscribed"}`))
	}))
	defer srv.Close()

	member, err := newTestClient(srv).UpsertMember(context.Background(), "existing@example.com", "")
	assert.NoError(t, err)
	assert.True(t, member.AlreadySubscribed)
	assert.Equal(t, hash, member.ID)
	assert.Equal(t, 1, requests, "no write for an already-subscribed member")
}

func TestUpsertMemberResubscribes(t *testing.T) {
	hash := SubscriberHash("lapsed@example.com")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"id":"` + hash + `","email_address":"lapsed@example.com","status":"unsubscribed"}`))
		case http.MethodPatch:
			assert.Equal(t, "/lists/aud123/members/"+hash, r.URL.Path)
			raw, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.NotContains(t, string(raw), "email_address", "member PATCH is addressed by hash, never by an empty address field")
			var body memberRequest
			assert.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, "subscribed", body.Status)
			w.Write([]byte(`{"id":"` + hash + `","email_address":"lapsed@example.com","status":"subscribed"}`))
		default:
			t.Errorf("unexpected method: %s", r.Method)
		}
	}))
	defer srv.Close()

	member, err := newTestClient(srv).UpsertMember(context.Background(), "lapsed@example.com", "")
	assert.NoError(t, err)
	assert.False(t, member.AlreadySubscribed)
	assert.Equal(t, "subscribed", member.Status)
}

func TestUpsertMemberSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"title":"Invalid Resource","detail":"Please provide a valid email address.","status":400}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).UpsertMember(context.Background(), "bad", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Resource")
}

func TestUpsertMemberUnconfigured(t *testing.T) {
	c := NewClient("", "", "")
	_, err := c.UpsertMember(context.Background(), "a@b.com", "")
	assert.Error(t, err)
}
