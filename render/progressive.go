// Package render draws fractal views progressively: a coarse pass of large
// blocks first, then passes of halved block size that only fill in the
// positions the previous passes did not cover.
package render

import (
	"fmt"
	"image"
	"math/bits"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultStep is the block size of the first, coarsest pass.
const DefaultStep = 16

// Scheduler runs a task on the next eligible tick of the context owning the
// loop, after any work already waiting there.
type Scheduler interface {
	Schedule(task func())
}

// Job describes one progressive render of the rectangle [Start, End).
type Job struct {
	Start, End image.Point
	// Step is the block size of the first pass. It is rounded down to a
	// power of two; zero means DefaultStep.
	Step int
	// Callback is invoked once per visited position of a pass and fills the
	// step x step block anchored there.
	Callback func(p image.Point, step int)
	// OnPassComplete is invoked after every pass.
	OnPassComplete func(step int)
	// LowQuality stops after the first pass.
	LowQuality bool
	// Workers > 1 evaluates each pass on that many goroutines. Callback
	// must then be safe for concurrent use on disjoint blocks.
	Workers int
}

// Rect returns the rendered rectangle.
func (j Job) Rect() image.Rectangle {
	return image.Rectangle{Min: j.Start, Max: j.End}
}

// Block returns the block of size step anchored at p, clipped to the job.
func (j Job) Block(p image.Point, step int) image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+step, p.Y+step).Intersect(j.Rect())
}

// Token identifies one Render call of a Loop.
type Token uint64

// Loop runs progressive renders. Starting a render invalidates every pass
// still scheduled for earlier renders of the same loop.
type Loop struct {
	sched Scheduler
	gen   atomic.Uint64
}

func NewLoop(s Scheduler) *Loop {
	return &Loop{sched: s}
}

// Render runs the first pass of job immediately and schedules the rest.
func (l *Loop) Render(job Job) Token {
	t := Token(l.gen.Add(1))
	job.Step = normalizeStep(job.Step)
	l.pass(t, job, job.Step, false)
	return t
}

// Cancel invalidates the current render.
func (l *Loop) Cancel() {
	l.gen.Add(1)
}

// Current reports whether t belongs to the latest render and was not cancelled.
func (l *Loop) Current(t Token) bool {
	return uint64(t) == l.gen.Load()
}

func (l *Loop) pass(t Token, job Job, step int, refine bool) {
	if !l.Current(t) {
		return
	}
	job.runPass(step, refine)
	if job.OnPassComplete != nil {
		job.OnPassComplete(step)
	}
	if step <= 1 || job.LowQuality || !l.Current(t) {
		return
	}
	next := step / 2
	l.sched.Schedule(func() { l.pass(t, job, next, true) })
}

func normalizeStep(step int) int {
	if step <= 0 {
		return DefaultStep
	}
	return 1 << (bits.Len(uint(step)) - 1)
}

// runPass visits the positions of one pass. On refinement passes the even
// columns coincide with the previous pass' columns, so only their odd rows
// are new.
func (j Job) runPass(step int, refine bool) {
	r := j.Rect()
	if r.Empty() || j.Callback == nil {
		return
	}
	if j.Workers <= 1 {
		j.columns(r.Min.X, r.Max.X, step, refine)
		return
	}

	// bands start on even columns so each band sees the same column parity
	// as the sequential walk
	bandW := 2 * step
	if per := (r.Dx() + j.Workers - 1) / j.Workers; per > bandW {
		bandW = (per + 2*step - 1) / (2 * step) * (2 * step)
	}

	var g errgroup.Group
	g.SetLimit(j.Workers)
	for _, band := range splitRectNoClip(r, bandW, r.Dy()) {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("pass %d band %v: %v", step, band, p)
				}
			}()
			j.columns(band.Min.X, band.Max.X, step, refine)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
}

func (j Job) columns(x0, x1, step int, refine bool) {
	i := (x0 - j.Start.X) / step
	for x := x0; x < x1; x, i = x+step, i+1 {
		startY, stepY := j.Start.Y, step
		if refine && i%2 == 0 {
			startY, stepY = j.Start.Y+step, 2*step
		}
		for y := startY; y < j.End.Y; y += stepY {
			j.Callback(image.Pt(x, y), step)
		}
	}
}

// Queue is a FIFO Scheduler drained explicitly by its owner.
// It is not safe for concurrent use.
type Queue struct {
	tasks []func()
}

func (q *Queue) Schedule(task func()) {
	q.tasks = append(q.tasks, task)
}

// Len returns the number of waiting tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// RunNext runs the oldest waiting task and reports whether there was one.
func (q *Queue) RunNext() bool {
	if len(q.tasks) == 0 {
		return false
	}
	task := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	task()
	return true
}

// Converge runs job through all of its passes before returning.
func Converge(job Job) {
	var q Queue
	NewLoop(&q).Render(job)
	for q.RunNext() {
	}
}
