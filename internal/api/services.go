package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Reader is the untyped read side of a Resource, used by the gateway to
// serve any collection by name. Bodies are the backend bytes as received.
type Reader interface {
	Fetch(ctx context.Context, q Query) (json.RawMessage, error)
	FetchOne(ctx context.Context, id string) (json.RawMessage, error)
}

type Services struct {
	Client      *Client
	Batches     *Resource[Batch]
	Courses     *Resource[Course]
	Chapters    *Resource[Chapter]
	Divisions   *Resource[Division]
	Groups      *Resource[Group]
	Faqs        *Resource[Faq]
	Students    *Resource[Student]
	Permissions *PermissionService

	readers map[string]Reader
}

func NewServices(client *Client) *Services {
	s := &Services{
		Client:      client,
		Batches:     NewResource[Batch](client, "/batches"),
		Courses:     NewResource[Course](client, "/courses"),
		Chapters:    NewResource[Chapter](client, "/chapters"),
		Divisions:   NewResource[Division](client, "/divisions"),
		Groups:      NewResource[Group](client, "/groups"),
		Faqs:        NewResource[Faq](client, "/faqs"),
		Students:    NewResource[Student](client, "/students"),
		Permissions: &PermissionService{client: client},
	}
	s.readers = map[string]Reader{
		s.Batches.Tag():   s.Batches,
		s.Courses.Tag():   s.Courses,
		s.Chapters.Tag():  s.Chapters,
		s.Divisions.Tag(): s.Divisions,
		s.Groups.Tag():    s.Groups,
		s.Faqs.Tag():      s.Faqs,
		s.Students.Tag():  s.Students,
	}
	return s
}

func (s *Services) Reader(name string) (Reader, bool) {
	r, ok := s.readers[name]
	return r, ok
}

type PermissionService struct {
	client *Client
}

func (p *PermissionService) Mine(ctx context.Context) (*Envelope[PermissionSet], error) {
	var out Envelope[PermissionSet]
	if err := p.client.Do(ctx, http.MethodGet, "/my-permissions", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
