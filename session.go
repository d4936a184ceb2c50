package sampledist

import (
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sampledist/internal/constants"
	"github.com/hyp3rd/sampledist/internal/sentinel"
	"github.com/hyp3rd/sampledist/pkg/binning"
	"github.com/hyp3rd/sampledist/pkg/distribution"
	"github.com/hyp3rd/sampledist/pkg/histogram"
	"github.com/hyp3rd/sampledist/pkg/render"
	"github.com/hyp3rd/sampledist/pkg/sampling"
	"github.com/hyp3rd/sampledist/pkg/stats"
)

// Phase is the state of the sampling control.
type Phase string

// Constants for the sampling control states.
const (
	PhaseIdle           Phase = "idle"
	PhaseSamplingSingle Phase = "sampling-single"
	PhaseSamplingBatch  Phase = "sampling-batch"
	PhaseLocked         Phase = "locked"
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	return string(p)
}

// SampleResult describes one drawn sample.
type SampleResult struct {
	Seq      uint64  `json:"seq"             msgpack:"seq"      codec:"seq"`
	Mean     float64 `json:"mean"            msgpack:"mean"     codec:"mean"`
	SD       float64 `json:"sd"              msgpack:"sd"       codec:"sd"`
	Bin      int     `json:"bin"             msgpack:"bin"      codec:"bin"`
	Count    int     `json:"count"           msgpack:"count"    codec:"count"`
	Excluded bool    `json:"excluded"        msgpack:"excluded" codec:"excluded"`
	Locked   bool    `json:"locked"          msgpack:"locked"   codec:"locked"`
	Values   int     `json:"values"          msgpack:"values"   codec:"values"`
	Error    string  `json:"error,omitempty" msgpack:"error"    codec:"error"`
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger classification failures are reported to.
func WithLogger(logger Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStatsCollector sets the collector session events are counted in.
func WithStatsCollector(collector stats.ICollector) SessionOption {
	return func(s *Session) {
		if collector != nil {
			s.collector = collector
		}
	}
}

// Session holds the whole state of one sampling demo: both histograms, the animation bins and
// their bin map, the configuration surface and the sampling control. It is not safe for
// concurrent use; the Controller serializes access through an EventLoop.
type Session struct {
	id        string
	cfg       Config
	adapter   render.Adapter
	logger    Logger
	collector stats.ICollector

	popCanvas  render.CanvasID
	sdmCanvas  render.CanvasID
	population *histogram.Histogram
	sdm        *histogram.Histogram
	bins       binning.Bins
	binMap     binning.Map

	kind        distribution.Kind
	params      distribution.Parameters
	sampleSize  int
	repetitions int
	phase       Phase
	sdmLocked   bool
	sdmVisible  bool

	sampler    *sampling.Sampler
	means      stats.Series
	samples    int
	excluded   int
	last       *SampleResult
	generation uint64
}

// NewSession validates cfg, creates both canvases and draws the initial histograms.
func NewSession(adapter render.Adapter, cfg *Config, opts ...SessionOption) (*Session, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	kind, err := distribution.ParseKind(cfg.Distribution)
	if err != nil {
		return nil, err
	}

	collector, err := stats.NewCollector(cfg.StatsCollector)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = randomSeed()
	}

	s := &Session{
		id:          uuid.NewString(),
		cfg:         *cfg,
		adapter:     adapter,
		logger:      nopLogger{},
		collector:   collector,
		kind:        distribution.Normal,
		params:      distribution.Parameters{Mean: cfg.PopulationMean, SD: cfg.PopulationSD},
		sampleSize:  cfg.SampleSize,
		repetitions: cfg.Repetitions,
		phase:       PhaseIdle,
		sdmVisible:  cfg.ShowSDM,
		sampler:     sampling.NewSampler(seed),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.popCanvas = adapter.CreateCanvas(constants.PopulationCanvas, cfg.CanvasWidth, cfg.CanvasHeight)
	s.sdmCanvas = adapter.CreateCanvas(constants.SDMCanvas, cfg.CanvasWidth, cfg.CanvasHeight)

	s.population, err = histogram.New(adapter, s.popCanvas, "population", constants.PopulationFill,
		s.params.Mean, s.params.SD, cfg.Bins,
		histogram.WithCanvasSize(cfg.CanvasWidth, cfg.CanvasHeight),
		histogram.WithEvaluator(s.normal()),
	)
	if err != nil {
		return nil, err
	}

	s.sdm, err = histogram.New(adapter, s.sdmCanvas, "sdm", constants.SDMFill,
		s.params.Mean, s.sem(), cfg.Bins,
		histogram.WithCanvasSize(cfg.CanvasWidth, cfg.CanvasHeight),
		histogram.WithAxisSD(cfg.PopulationSD),
		histogram.WithEvaluator(s.normal()),
		histogram.WithoutDataset(),
		histogram.WithHidden(!cfg.ShowSDM),
	)
	if err != nil {
		return nil, err
	}

	if kind != distribution.Normal {
		err = s.ChangePopulation(kind)
		if err != nil {
			return nil, err
		}

		return s, nil
	}

	s.Reset()

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Phase returns the state of the sampling control.
func (s *Session) Phase() Phase { return s.phase }

// Kind returns the population family.
func (s *Session) Kind() distribution.Kind { return s.kind }

// SampleSize returns the current sample size.
func (s *Session) SampleSize() int { return s.sampleSize }

// Repetitions returns the number of samples per request.
func (s *Session) Repetitions() int { return s.repetitions }

// Population returns the population histogram.
func (s *Session) Population() *histogram.Histogram { return s.population }

// SDM returns the sampling distribution histogram.
func (s *Session) SDM() *histogram.Histogram { return s.sdm }

// Bins returns a copy of the animation bins.
func (s *Session) Bins() binning.Bins { return slices.Clone(s.bins) }

// BinMap returns a copy of the bin map.
func (s *Session) BinMap() binning.Map { return slices.Clone(s.binMap) }

// Generation is incremented by every reset event.
func (s *Session) Generation() uint64 { return s.generation }

// ChangePopulation switches the population family. Families other than normal lock the SDM display.
func (s *Session) ChangePopulation(kind distribution.Kind) error {
	evaluator, err := s.evaluator(kind)
	if err != nil {
		return err
	}

	s.kind = kind
	s.params = s.parameters(kind)

	s.Reset()

	err = s.population.UpdateParameters(s.params.Mean, s.params.SD, s.cfg.Bins, evaluator, kind.IsBounded())
	if err != nil {
		return err
	}

	if kind.SupportsSDM() {
		s.sdmLocked = false

		err = s.sdm.UpdateParameters(s.params.Mean, s.sem(), s.cfg.Bins, s.normal(), false)
		if err != nil {
			return err
		}
	} else {
		s.sdmLocked = true
		s.sdmVisible = false
		s.sdm.SetHidden(true)
	}

	// the bin map follows the new family
	s.rebuildBins()
	s.drawPopulationText()
	s.collector.Incr(stats.KeyPopulations, 1)

	return nil
}

// SetSampleSize validates n (2-100), resets and rescales the SDM curve. Invalid input leaves the
// session untouched.
func (s *Session) SetSampleSize(n int) error {
	err := validateSampleSize(n)
	if err != nil {
		return err
	}

	s.sampleSize = n
	s.Reset()

	if s.kind.SupportsSDM() {
		s.sdm.SetParameters(s.params.Mean, s.sem())
	}

	return nil
}

// SetRepetitions switches between single sampling and batches, then resets.
func (s *Session) SetRepetitions(repetitions int) error {
	err := s.cfg.validateRepetitions(repetitions)
	if err != nil {
		return err
	}

	s.repetitions = repetitions
	s.Reset()

	return nil
}

// SetSDMVisible shows or hides the sampling distribution curve. Showing it is refused while the
// population is not normal.
func (s *Session) SetSDMVisible(visible bool) error {
	if visible && s.sdmLocked {
		return ewrap.Wrap(sentinel.ErrSDMUnavailable, s.kind.String())
	}

	s.sdmVisible = visible
	s.sdm.SetHidden(!visible)

	return nil
}

// Reset clears the animation track and the drawn sample, rebuilds the bin map and unlocks sampling.
// The histograms keep their curves and the population keeps its dataset.
func (s *Session) Reset() {
	s.generation++
	s.rebuildBins()

	s.adapter.ClearByClass(s.popCanvas, constants.SampleClass)
	s.adapter.ClearByClass(s.sdmCanvas, constants.AnimatedMeanClass)
	s.adapter.DrawText(s.sdmCanvas, "", textX, textY, constants.SampleFill)

	s.means.Reset()
	s.samples = 0
	s.excluded = 0
	s.last = nil
	s.phase = PhaseIdle

	s.drawPopulationText()
	s.collector.Incr(stats.KeyResets, 1)
}

// SampleOnce draws one sample, animates its mean into the SDM track and displays the sample on
// the population graph.
func (s *Session) SampleOnce() (SampleResult, error) {
	switch s.phase {
	case PhaseLocked:
		return SampleResult{}, sentinel.ErrSamplingLocked
	case PhaseSamplingBatch:
		return SampleResult{}, sentinel.ErrSamplingBusy
	case PhaseIdle, PhaseSamplingSingle:
	}

	s.phase = PhaseSamplingSingle

	res, err := s.drawOne(true)
	if err != nil {
		s.phase = PhaseIdle

		return res, err
	}

	if !res.Excluded {
		s.adapter.DrawText(s.sdmCanvas,
			"Sample statistics: mean = "+format(res.Mean)+" sd = "+format(res.SD),
			textX, textY, constants.SampleFill)
	}

	s.settle()

	return res, nil
}

// BeginBatch enters the batch state and returns the generation the batch belongs to.
func (s *Session) BeginBatch() (uint64, error) {
	switch s.phase {
	case PhaseLocked:
		return 0, sentinel.ErrSamplingLocked
	case PhaseSamplingBatch:
		return 0, sentinel.ErrSamplingBusy
	case PhaseIdle, PhaseSamplingSingle:
	}

	s.phase = PhaseSamplingBatch

	return s.generation, nil
}

// SampleChunk draws up to size samples of a batch started in generation. It stops early when the
// track locks, and fails with ErrBatchInterrupted when a reset happened since BeginBatch.
func (s *Session) SampleChunk(generation uint64, size int) (int, error) {
	if generation == s.generation && s.phase == PhaseLocked {
		// the previous chunk locked the track on its last sample
		return 0, nil
	}

	if generation != s.generation || s.phase != PhaseSamplingBatch {
		return 0, ewrap.Wrapf(sentinel.ErrBatchInterrupted, "generation %d, now %d", generation, s.generation)
	}

	done := 0

	for range size {
		res, err := s.drawOne(false)
		if err != nil {
			return done, err
		}

		done++

		if res.Locked {
			break
		}
	}

	return done, nil
}

// EndBatch leaves the batch state, unless a reset already did.
func (s *Session) EndBatch(generation uint64) {
	if generation != s.generation || s.phase != PhaseSamplingBatch {
		return
	}

	s.settle()
}

// Last returns the most recent sample, if any.
func (s *Session) Last() (SampleResult, bool) {
	if s.last == nil {
		return SampleResult{}, false
	}

	return *s.last, true
}

// settle returns to idle unless the track locked.
func (s *Session) settle() {
	if s.locked() {
		s.phase = PhaseLocked

		return
	}

	s.phase = PhaseIdle
}

// drawOne draws a sample and classifies its mean. A mean matching no bin is logged and excluded
// without failing the caller.
func (s *Session) drawOne(display bool) (SampleResult, error) {
	sample, err := s.sampler.Sample(s.population.Dataset(), s.sampleSize)
	if err != nil {
		return SampleResult{}, err
	}

	mean := sampling.Mean(sample)
	res := SampleResult{
		Seq:    s.sampler.Seq(),
		Mean:   sampling.Round(mean, constants.StatsPlaces),
		SD:     sampling.Round(sampling.StandardDeviation(sample), constants.StatsPlaces),
		Values: len(sample),
	}

	if display {
		s.drawSample(sample)
	}

	bin, err := binning.Classify(s.bins, s.binMap, mean)
	if err != nil {
		s.logger.Printf("binning error for %v: %v", mean, err)
		s.collector.Incr(stats.KeyExcluded, 1)
		s.excluded++

		res.Excluded = true
		res.Error = err.Error()
		s.last = &res

		return res, nil
	}

	res.Bin = bin.Index
	res.Count = bin.Count

	s.means.Add(mean)
	s.samples++
	s.collector.Incr(stats.KeySamples, 1)
	s.drawMeanBlock(bin)

	if s.locked() {
		res.Locked = true

		s.phase = PhaseLocked
		s.collector.Incr(stats.KeyLocks, 1)
		s.logger.Printf("sampling locked after %d samples: bin %d is full", s.samples, bin.Index)
	}

	s.last = &res

	return res, nil
}

// locked reports whether one more block in the fullest bin would overflow the canvas.
func (s *Session) locked() bool {
	return float64(s.bins.Max()+1)*s.blockHeight() > float64(s.cfg.CanvasHeight)
}

func (s *Session) blockHeight() float64 {
	return constants.BlockHeight / float64(s.repetitions)
}

func (s *Session) blockWidth() float64 {
	return float64(s.cfg.CanvasWidth) / float64(len(s.bins))
}

// drawMeanBlock drops a block at the top of the SDM canvas and moves it onto its bin's stack.
func (s *Session) drawMeanBlock(bin binning.Result) {
	width := s.blockWidth()
	height := s.blockHeight()
	x := float64(max(0, binning.SafeBinLimits(float64(bin.Index)*width, width)))

	block := s.adapter.DrawBar(s.sdmCanvas, constants.AnimatedMeanClass, x, 0, width+1, height, constants.MeanBlockFill, 1)
	s.adapter.UpdateBar(block, float64(s.cfg.CanvasHeight)-float64(bin.Count)*height, height)
}

// drawSample replaces the drawn sample on the population graph with one bar per distinct value.
func (s *Session) drawSample(sample []float64) {
	s.adapter.ClearByClass(s.popCanvas, constants.SampleClass)

	counts := make(map[float64]int, len(sample))
	for _, v := range sample {
		counts[v]++
	}

	width := math.Ceil(s.blockWidth())
	canvasHeight := float64(s.cfg.CanvasHeight)

	for _, v := range slices.Sorted(maps.Keys(counts)) {
		height := float64(counts[v]) * constants.SampleBarHeight
		x := float64(max(0, binning.SafeBinLimits(s.population.PixelX(v), width)))

		s.adapter.DrawBar(s.popCanvas, constants.SampleClass, x, canvasHeight-height, width, height, constants.SampleFill, 1)
	}
}

func (s *Session) rebuildBins() {
	bins, err := binning.NewBins(s.cfg.Bins, s.cfg.Modifier)
	if err != nil {
		// Validate guarantees the modifier divides the bin count
		panic(err)
	}

	s.bins = bins
	s.binMap = binning.NewMap(s.sdm, len(bins), s.cfg.Modifier, s.kind)
}

func (s *Session) drawPopulationText() {
	var text string

	switch s.kind {
	case distribution.Uniform:
		text = "Population parameters: mean = " + format(s.params.Mean)
	case distribution.Bounded:
		text = "Population parameters: p = " + format(s.params.Mean)
	case distribution.Normal, distribution.NormalNarrow:
		text = "Population parameters: mean = " + format(s.params.Mean) + " sd = " + format(s.params.SD)
	}

	s.adapter.DrawText(s.popCanvas, text, textX, textY, constants.PopulationFill)
}

// parameters returns the family parameters, on the configured axis for the wide families.
func (s *Session) parameters(kind distribution.Kind) distribution.Parameters {
	switch kind {
	case distribution.Normal, distribution.Uniform:
		return distribution.Parameters{Mean: s.cfg.PopulationMean, SD: s.cfg.PopulationSD}
	case distribution.NormalNarrow:
		return distribution.Parameters{Mean: s.cfg.PopulationMean, SD: constants.NarrowPopulationSD}
	case distribution.Bounded:
		return distribution.Family(kind)
	default:
		return distribution.Family(kind)
	}
}

func (s *Session) evaluator(kind distribution.Kind) (distribution.Evaluator, error) {
	return distribution.For(kind,
		distribution.WithScale(s.cfg.HeightScale),
		distribution.WithBoundedScale(s.cfg.BoundedHeightScale),
	)
}

func (s *Session) normal() distribution.Evaluator {
	return distribution.NormalDensity{Scale: s.cfg.HeightScale}
}

// sem is the standard error of the mean for the current sample size.
func (s *Session) sem() float64 {
	return s.params.SD / math.Sqrt(float64(s.sampleSize))
}

// Snapshot is a serializable copy of the session state.
type Snapshot struct {
	SessionID           string                  `json:"session_id"           msgpack:"session_id"           codec:"session_id"`
	Distribution        distribution.Kind       `json:"distribution"         msgpack:"distribution"         codec:"distribution"`
	Population          distribution.Parameters `json:"population"           msgpack:"population"           codec:"population"`
	SampleSize          int                     `json:"sample_size"          msgpack:"sample_size"          codec:"sample_size"`
	Repetitions         int                     `json:"repetitions"          msgpack:"repetitions"          codec:"repetitions"`
	Phase               Phase                   `json:"phase"                msgpack:"phase"                codec:"phase"`
	SDMVisible          bool                    `json:"sdm_visible"          msgpack:"sdm_visible"          codec:"sdm_visible"`
	SDMAvailable        bool                    `json:"sdm_available"        msgpack:"sdm_available"        codec:"sdm_available"`
	Generation          uint64                  `json:"generation"           msgpack:"generation"           codec:"generation"`
	Samples             int                     `json:"samples"              msgpack:"samples"              codec:"samples"`
	Excluded            int                     `json:"excluded"             msgpack:"excluded"             codec:"excluded"`
	Means               stats.Summary           `json:"means"                msgpack:"means"                codec:"means"`
	Last                *SampleResult           `json:"last,omitempty"       msgpack:"last"                 codec:"last"`
	Bins                []int                   `json:"bins"                 msgpack:"bins"                 codec:"bins"`
	BinMap              binning.Map             `json:"bin_map"              msgpack:"bin_map"              codec:"bin_map"`
	PopulationHistogram histogram.State         `json:"population_histogram" msgpack:"population_histogram" codec:"population_histogram"`
	SDMHistogram        histogram.State         `json:"sdm_histogram"        msgpack:"sdm_histogram"        codec:"sdm_histogram"`
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:           s.id,
		Distribution:        s.kind,
		Population:          s.params,
		SampleSize:          s.sampleSize,
		Repetitions:         s.repetitions,
		Phase:               s.phase,
		SDMVisible:          s.sdmVisible,
		SDMAvailable:        !s.sdmLocked,
		Generation:          s.generation,
		Samples:             s.samples,
		Excluded:            s.excluded,
		Means:               s.means.Summary(),
		Bins:                slices.Clone(s.bins),
		BinMap:              slices.Clone(s.binMap),
		PopulationHistogram: s.population.State(),
		SDMHistogram:        s.sdm.State(),
	}

	if s.last != nil {
		last := *s.last
		snap.Last = &last
	}

	return snap
}

const (
	textX = 20
	textY = 30
)

func randomSeed() uint64 {
	//nolint:gosec // demo sampling, not security sensitive
	return rand.Uint64()
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
