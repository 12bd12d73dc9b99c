package action

import (
	"context"

	"semaphore/portal/internal/api"
)

// Endpoint is the untyped face of a Set.
type Endpoint interface {
	Resource() string
	CreateJSON(ctx context.Context, body []byte) interface{}
	UpdateJSON(ctx context.Context, id string, body []byte) interface{}
	DeleteByID(ctx context.Context, id string) interface{}
}

type Actions struct {
	Batches   *Set[api.Batch, api.BatchInput]
	Courses   *Set[api.Course, api.CourseInput]
	Chapters  *Set[api.Chapter, api.ChapterInput]
	Divisions *Set[api.Division, api.DivisionInput]
	Groups    *Set[api.Group, api.GroupInput]
	Faqs      *Set[api.Faq, api.FaqInput]
	Students  *Set[api.Student, api.StudentInput]

	endpoints map[string]Endpoint
}

func New(svc *api.Services, opts ...SetOption) *Actions {
	opts = append([]SetOption{withValidator(newValidator())}, opts...)
	a := &Actions{
		Batches:   NewSet[api.Batch, api.BatchInput]("Batch", svc.Batches, opts...),
		Courses:   NewSet[api.Course, api.CourseInput]("Course", svc.Courses, opts...),
		Chapters:  NewSet[api.Chapter, api.ChapterInput]("Chapter", svc.Chapters, opts...),
		Divisions: NewSet[api.Division, api.DivisionInput]("Division", svc.Divisions, opts...),
		Groups:    NewSet[api.Group, api.GroupInput]("Group", svc.Groups, opts...),
		Faqs:      NewSet[api.Faq, api.FaqInput]("FAQ", svc.Faqs, opts...),
		Students:  NewSet[api.Student, api.StudentInput]("Student", svc.Students, opts...),
	}
	a.endpoints = make(map[string]Endpoint)
	for _, e := range []Endpoint{a.Batches, a.Courses, a.Chapters, a.Divisions, a.Groups, a.Faqs, a.Students} {
		a.endpoints[e.Resource()] = e
	}
	return a
}

func (a *Actions) Endpoint(resource string) (Endpoint, bool) {
	e, ok := a.endpoints[resource]
	return e, ok
}
