package sampledist

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	fiber "github.com/gofiber/fiber/v3"
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sampledist/internal/libs/serializer"
	"github.com/hyp3rd/sampledist/internal/sentinel"
	"github.com/hyp3rd/sampledist/pkg/render"
)

// DemoHTTPOption configures the demo HTTP server.
type DemoHTTPOption func(*DemoHTTPServer)

// DemoHTTPServer exposes the configuration surface of a Service and the rendered scene over HTTP.
type DemoHTTPServer struct {
	addr             string
	app              *fiber.App
	readTimeout      time.Duration
	writeTimeout     time.Duration
	authFunc         func(fiber.Ctx) error
	scene            *render.Scene
	journal          *render.Journal
	serializers      *serializer.Registry
	maxWait          time.Duration
	ln               net.Listener
	started          bool
	listenerDeadline time.Duration
	logger           Logger
}

// WithDemoAuth sets an auth function (return error to block).
func WithDemoAuth(fn func(fiber.Ctx) error) DemoHTTPOption {
	return func(s *DemoHTTPServer) { s.authFunc = fn }
}

// WithDemoReadTimeout sets read timeout.
func WithDemoReadTimeout(d time.Duration) DemoHTTPOption {
	return func(s *DemoHTTPServer) { s.readTimeout = d }
}

// WithDemoWriteTimeout sets write timeout.
func WithDemoWriteTimeout(d time.Duration) DemoHTTPOption {
	return func(s *DemoHTTPServer) { s.writeTimeout = d }
}

// WithDemoScene serves the given scene under /scene.
func WithDemoScene(scene *render.Scene) DemoHTTPOption {
	return func(s *DemoHTTPServer) { s.scene = scene }
}

// WithDemoJournal serves the given journal under /events.
func WithDemoJournal(journal *render.Journal) DemoHTTPOption {
	return func(s *DemoHTTPServer) { s.journal = journal }
}

// WithDemoSerializers replaces the serializer registry used by /snapshot and /events.
func WithDemoSerializers(registry *serializer.Registry) DemoHTTPOption {
	return func(s *DemoHTTPServer) { s.serializers = registry }
}

// WithDemoLogger reports errors of the serving goroutine.
func WithDemoLogger(logger Logger) DemoHTTPOption {
	return func(s *DemoHTTPServer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDemoMaxWait caps how long /events blocks waiting for new events.
func WithDemoMaxWait(d time.Duration) DemoHTTPOption {
	return func(s *DemoHTTPServer) { s.maxWait = d }
}

const (
	defaultReadTimeout      = 5 * time.Second
	defaultWriteTimeout     = 5 * time.Second
	defaultListenerDeadline = 2 * time.Second
	defaultMaxWait          = 2 * time.Second
)

// NewDemoHTTPServer builds an HTTP server holder (lazy start).
func NewDemoHTTPServer(addr string, opts ...DemoHTTPOption) *DemoHTTPServer {
	srv := &DemoHTTPServer{
		addr:             addr,
		readTimeout:      defaultReadTimeout,
		writeTimeout:     defaultWriteTimeout,
		serializers:      serializer.NewSerializerRegistry(),
		maxWait:          defaultMaxWait,
		listenerDeadline: defaultListenerDeadline,
		logger:           nopLogger{},
	}
	for _, opt := range opts {
		opt(srv)
	}

	srv.app = fiber.New(fiber.Config{
		ReadTimeout:  srv.readTimeout,
		WriteTimeout: srv.writeTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: demoErrorHandler,
	})

	return srv
}

// Start mounts the routes for svc and launches the listener (idempotent).
func (s *DemoHTTPServer) Start(ctx context.Context, svc Service) error {
	if s.started {
		return nil
	}

	s.mountRoutes(svc)

	lc := net.ListenConfig{}

	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return ewrap.Wrap(err, "demo listen")
	}

	s.ln = ln

	go s.serve(ln)

	s.started = true

	return nil
}

// serve blocks until ln fails or the server shuts down.
func (s *DemoHTTPServer) serve(ln net.Listener) {
	serveErr := s.app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	if serveErr != nil {
		s.logger.Printf("demo http server stopped: %v", serveErr)
	}
}

// Address returns the bound address (useful when passing ":0" for ephemeral port). Empty if not started yet.
func (s *DemoHTTPServer) Address() string {
	if s.ln == nil {
		return ""
	}

	return s.ln.Addr().String()
}

// Shutdown stops the server.
func (s *DemoHTTPServer) Shutdown(ctx context.Context) error {
	if !s.started {
		return nil
	}

	ch := make(chan error, 1)

	go func() {
		ch <- s.app.ShutdownWithTimeout(s.listenerDeadline)
	}()

	select {
	case <-ctx.Done():
		return sentinel.ErrHTTPShutdownTimeout
	case err := <-ch:
		return err
	}
}

func (s *DemoHTTPServer) mountRoutes(svc Service) {
	useAuth := s.wrapAuth
	s.registerRead(useAuth, svc)
	s.registerScene(useAuth)
	s.registerControl(useAuth, svc)
}

// wrapAuth returns an auth-wrapped handler if authFunc provided.
func (s *DemoHTTPServer) wrapAuth(handler fiber.Handler) fiber.Handler { //nolint:ireturn
	if s.authFunc == nil {
		return handler
	}

	return func(fiberCtx fiber.Ctx) error {
		authErr := s.authFunc(fiberCtx)
		if authErr != nil {
			return authErr
		}

		return handler(fiberCtx)
	}
}

func (s *DemoHTTPServer) registerRead(useAuth func(fiber.Handler) fiber.Handler, svc Service) {
	s.app.Get("/health", useAuth(func(fiberCtx fiber.Ctx) error { return fiberCtx.SendString("ok") }))
	s.app.Get("/stats", useAuth(func(fiberCtx fiber.Ctx) error { return fiberCtx.JSON(svc.GetStats()) }))
	s.app.Get("/state", useAuth(func(fiberCtx fiber.Ctx) error {
		snap, err := svc.Snapshot(fiberCtx.Context())
		if err != nil {
			return err
		}

		return fiberCtx.JSON(snap)
	}))
	s.app.Get("/snapshot", useAuth(func(fiberCtx fiber.Ctx) error {
		snap, err := svc.Snapshot(fiberCtx.Context())
		if err != nil {
			return err
		}

		return s.encode(fiberCtx, snap)
	}))
}

func (s *DemoHTTPServer) registerScene(useAuth func(fiber.Handler) fiber.Handler) {
	s.app.Get("/events", useAuth(func(fiberCtx fiber.Ctx) error {
		if s.journal == nil {
			return fiberCtx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event journal not available"})
		}

		since, err := strconv.ParseUint(fiberCtx.Query("since", "0"), 10, 64)
		if err != nil {
			return fiberCtx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid since"})
		}

		wait := s.maxWait
		if raw := fiberCtx.Query("wait"); raw != "" {
			wait, err = time.ParseDuration(raw)
			if err != nil || wait < 0 {
				return fiberCtx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid wait"})
			}

			wait = min(wait, s.maxWait)
		}

		ctx, cancel := context.WithTimeout(fiberCtx.Context(), wait)
		defer cancel()

		events, truncated, err := s.journal.Wait(ctx, since)
		if err != nil && !errors.Is(err, sentinel.ErrTimeoutOrCanceled) {
			return err
		}

		if events == nil {
			events = []render.Event{}
		}

		return s.encode(fiberCtx, eventPage{Events: events, Truncated: truncated})
	}))

	s.app.Get("/scene", useAuth(func(fiberCtx fiber.Ctx) error {
		if s.scene == nil {
			return fiberCtx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "scene not available"})
		}

		return fiberCtx.JSON(fiber.Map{"seq": s.scene.Seq(), "canvases": s.scene.Snapshot()})
	}))

	s.app.Get("/scene/:canvas.png", useAuth(func(fiberCtx fiber.Ctx) error {
		if s.scene == nil {
			return fiberCtx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "scene not available"})
		}

		snap, err := s.scene.Canvas(render.CanvasID(fiberCtx.Params("canvas")))
		if err != nil {
			return err
		}

		var buf bytes.Buffer

		err = render.EncodePNG(&buf, snap)
		if err != nil {
			return ewrap.Wrap(err, "encoding png")
		}

		fiberCtx.Set(fiber.HeaderContentType, "image/png")

		return fiberCtx.Send(buf.Bytes())
	}))
}

type eventPage struct {
	Events    []render.Event `json:"events"    msgpack:"events"    codec:"events"`
	Truncated bool           `json:"truncated" msgpack:"truncated" codec:"truncated"`
}

// encode writes v in the encoding named by the format query parameter.
func (s *DemoHTTPServer) encode(fiberCtx fiber.Ctx, v any) error {
	ser, err := s.serializers.New(fiberCtx.Query("format", "default"))
	if err != nil {
		return err
	}

	data, err := ser.Marshal(v)
	if err != nil {
		return ewrap.Wrap(err, "encoding response")
	}

	fiberCtx.Set(fiber.HeaderContentType, ser.ContentType())

	return fiberCtx.Send(data)
}

type populationRequest struct {
	Kind string `json:"kind"`
}

type sampleSizeRequest struct {
	N int `json:"n"`
}

type repetitionsRequest struct {
	Repetitions int `json:"repetitions"`
}

type sdmRequest struct {
	Visible bool `json:"visible"`
}

func (s *DemoHTTPServer) registerControl(useAuth func(fiber.Handler) fiber.Handler, svc Service) {
	s.app.Post("/population", useAuth(func(fiberCtx fiber.Ctx) error {
		var req populationRequest

		err := json.Unmarshal(fiberCtx.Body(), &req)
		if err != nil {
			return fiberCtx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		return s.respondState(fiberCtx, svc, svc.ChangePopulation(fiberCtx.Context(), req.Kind))
	}))
	s.app.Post("/sample-size", useAuth(func(fiberCtx fiber.Ctx) error {
		var req sampleSizeRequest

		err := json.Unmarshal(fiberCtx.Body(), &req)
		if err != nil {
			return fiberCtx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": sentinel.ErrInvalidSampleSize.Error()})
		}

		return s.respondState(fiberCtx, svc, svc.SetSampleSize(fiberCtx.Context(), req.N))
	}))
	s.app.Post("/repetitions", useAuth(func(fiberCtx fiber.Ctx) error {
		var req repetitionsRequest

		err := json.Unmarshal(fiberCtx.Body(), &req)
		if err != nil {
			return fiberCtx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		return s.respondState(fiberCtx, svc, svc.SetRepetitions(fiberCtx.Context(), req.Repetitions))
	}))
	s.app.Post("/sdm", useAuth(func(fiberCtx fiber.Ctx) error {
		var req sdmRequest

		err := json.Unmarshal(fiberCtx.Body(), &req)
		if err != nil {
			return fiberCtx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		return s.respondState(fiberCtx, svc, svc.SetSDMVisible(fiberCtx.Context(), req.Visible))
	}))
	s.app.Post("/sample", useAuth(func(fiberCtx fiber.Ctx) error {
		report, err := svc.Sample(fiberCtx.Context())
		if err != nil && !errors.Is(err, sentinel.ErrBatchInterrupted) {
			return err
		}

		if err != nil {
			return fiberCtx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "report": report})
		}

		return fiberCtx.JSON(report)
	}))
	s.app.Post("/reset", useAuth(func(fiberCtx fiber.Ctx) error {
		return s.respondState(fiberCtx, svc, svc.Reset(fiberCtx.Context()))
	}))
}

// respondState answers a control request with the resulting session state.
func (*DemoHTTPServer) respondState(fiberCtx fiber.Ctx, svc Service, opErr error) error {
	if opErr != nil {
		return opErr
	}

	snap, err := svc.Snapshot(fiberCtx.Context())
	if err != nil {
		return err
	}

	return fiberCtx.JSON(snap)
}

// statusFor maps a Service error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sentinel.ErrInvalidSampleSize),
		errors.Is(err, sentinel.ErrInvalidRepetitions),
		errors.Is(err, sentinel.ErrUnknownDistribution),
		errors.Is(err, sentinel.ErrParamCannotBeEmpty),
		errors.Is(err, sentinel.ErrSerializerNotFound):
		return fiber.StatusBadRequest
	case errors.Is(err, sentinel.ErrSamplingLocked),
		errors.Is(err, sentinel.ErrSamplingBusy),
		errors.Is(err, sentinel.ErrBatchInterrupted):
		return fiber.StatusConflict
	case errors.Is(err, sentinel.ErrSDMUnavailable):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, sentinel.ErrCanvasNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, sentinel.ErrTimeoutOrCanceled):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, sentinel.ErrLoopStopped):
		return fiber.StatusServiceUnavailable
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	return fiber.StatusInternalServerError
}

func demoErrorHandler(fiberCtx fiber.Ctx, err error) error {
	return fiberCtx.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
