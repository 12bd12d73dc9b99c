// Package forms loads the option lists a form needs before it can render.
package forms

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"semaphore/portal/internal/api"
)

// CourseForm holds the independent lists behind the course and chapter
// editors.
type CourseForm struct {
	Batches  []api.Batch   `json:"batches"`
	Courses  []api.Course  `json:"courses"`
	Chapters []api.Chapter `json:"chapters"`
}

// LoadCourseForm fetches the three lists concurrently. The first failure
// cancels the other requests and is returned.
func LoadCourseForm(ctx context.Context, svc *api.Services, q api.Query) (*CourseForm, error) {
	g, ctx := errgroup.WithContext(ctx)
	var form CourseForm

	g.Go(func() error {
		env, err := svc.Batches.List(ctx, q)
		if err != nil {
			return errors.Wrap(err, "loading batches")
		}
		form.Batches = env.Data.Items
		return nil
	})
	g.Go(func() error {
		env, err := svc.Courses.List(ctx, q)
		if err != nil {
			return errors.Wrap(err, "loading courses")
		}
		form.Courses = env.Data.Items
		return nil
	})
	g.Go(func() error {
		env, err := svc.Chapters.List(ctx, q)
		if err != nil {
			return errors.Wrap(err, "loading chapters")
		}
		form.Chapters = env.Data.Items
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &form, nil
}
