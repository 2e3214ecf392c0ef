// Copyright 2016, Timothy Bogdala <tdb@animal-machine.com>
// See the LICENSE file for more details.

package frameloop

import (
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"
)

// callLog is shared by the fakes so tests can assert cross-object ordering.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...interface{}) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) count(name string) int {
	n := 0
	for _, c := range l.calls {
		if c == name {
			n++
		}
	}
	return n
}

type fakeSwapChain struct {
	log       *callLog
	eye       Eye
	size      Size
	index     int
	commitErr Result
}

func (s *fakeSwapChain) CurrentTexture() TextureID { return TextureID(100 + 10*int(s.eye) + s.index) }
func (s *fakeSwapChain) Size() Size                { return s.size }
func (s *fakeSwapChain) Commit() Result {
	s.log.add("commit %s", s.eye)
	if s.commitErr.Failed() {
		return s.commitErr
	}
	s.index = (s.index + 1) % 3
	return ResultSuccess
}
func (s *fakeSwapChain) Destroy() { s.log.add("destroy swapchain %s", s.eye) }

type fakeMirror struct {
	log  *callLog
	size Size
}

func (m *fakeMirror) Texture() TextureID { return 900 }
func (m *fakeMirror) Size() Size         { return m.size }
func (m *fakeMirror) Destroy()           { m.log.add("destroy mirror texture") }

type fakeRuntime struct {
	log *callLog

	initResult    Result
	sessionResult Result
	hmd           HMDInfo
	chainResult   Result
	mirrorResult  Result
	originResult  Result
	posesResult   Result
	commitResult  Result

	// submitResults are consumed one per SubmitFrame; ResultSuccess after.
	submitResults []Result
	// quitAfter makes SessionStatus report ShouldQuit once this many status
	// checks have passed. Negative disables it.
	quitAfter int

	lastError ErrorInfo

	offsets      [EyeCount]mgl.Vec3
	poseFrames   []int64
	submitFrames []int64
	layers       []LayerEyeFov
	statusChecks int
	chains       []*fakeSwapChain
}

func newFakeRuntime(log *callLog) *fakeRuntime {
	return &fakeRuntime{
		log: log,
		hmd: HMDInfo{
			ProductName: "Fake HMD",
			Resolution:  Size{W: 1920, H: 1080},
			DefaultEyeFov: [EyeCount]FovPort{
				{UpTan: 1, DownTan: 1, LeftTan: 1, RightTan: 1},
				{UpTan: 1, DownTan: 1, LeftTan: 1, RightTan: 1},
			},
		},
		quitAfter: -1,
		lastError: ErrorInfo{Result: ResultError, ErrorString: "fake failure"},
		offsets: [EyeCount]mgl.Vec3{
			{-0.032, 0, 0},
			{0.032, 0, 0},
		},
	}
}

func (f *fakeRuntime) Initialize(params InitParams) Result {
	f.log.add("initialize")
	return f.initResult
}

func (f *fakeRuntime) Version() string { return "fake-1.0" }

func (f *fakeRuntime) CreateSession() (HMDInfo, Result) {
	f.log.add("create session")
	if f.sessionResult.Failed() {
		return HMDInfo{}, f.sessionResult
	}
	return f.hmd, ResultSuccess
}

func (f *fakeRuntime) FovTextureSize(eye Eye, fov FovPort, density float32) Size {
	return Size{W: 1182, H: 1464}
}

func (f *fakeRuntime) CreateSwapChain(eye Eye, size Size) (SwapChain, Result) {
	f.log.add("create swapchain %s", eye)
	if f.chainResult.Failed() {
		return nil, f.chainResult
	}
	sc := &fakeSwapChain{log: f.log, eye: eye, size: size, commitErr: f.commitResult}
	f.chains = append(f.chains, sc)
	return sc, ResultSuccess
}

func (f *fakeRuntime) CreateMirrorTexture(size Size) (MirrorTexture, Result) {
	f.log.add("create mirror texture")
	if f.mirrorResult.Failed() {
		return nil, f.mirrorResult
	}
	return &fakeMirror{log: f.log, size: size}, ResultSuccess
}

func (f *fakeRuntime) SetTrackingOrigin(origin TrackingOrigin) Result {
	f.log.add("set tracking origin %s", origin)
	return f.originResult
}

func (f *fakeRuntime) RenderDesc(eye Eye, fov FovPort) EyeRenderDesc {
	f.log.add("render desc %s", eye)
	return EyeRenderDesc{Eye: eye, Fov: fov, HmdToEyeOffset: f.offsets[eye]}
}

func (f *fakeRuntime) EyePoses(frameIndex int64, offsets [EyeCount]mgl.Vec3) ([EyeCount]Pose, float64, Result) {
	f.log.add("eye poses")
	f.poseFrames = append(f.poseFrames, frameIndex)
	var poses [EyeCount]Pose
	for i := range poses {
		poses[i] = Pose{Orientation: mgl.QuatIdent(), Position: offsets[i]}
	}
	return poses, float64(frameIndex) / 90.0, f.posesResult
}

func (f *fakeRuntime) Projection(fov FovPort, near, far float32) mgl.Mat4 {
	return mgl.Frustum(-fov.LeftTan*near, fov.RightTan*near, -fov.DownTan*near, fov.UpTan*near, near, far).Transpose()
}

func (f *fakeRuntime) SubmitFrame(frameIndex int64, layer *LayerEyeFov) Result {
	f.log.add("submit")
	f.submitFrames = append(f.submitFrames, frameIndex)
	f.layers = append(f.layers, *layer)
	if len(f.submitResults) > 0 {
		r := f.submitResults[0]
		f.submitResults = f.submitResults[1:]
		return r
	}
	return ResultSuccess
}

func (f *fakeRuntime) SessionStatus() (SessionStatus, Result) {
	f.log.add("session status")
	f.statusChecks++
	quit := f.quitAfter >= 0 && f.statusChecks > f.quitAfter
	return SessionStatus{IsVisible: true, HmdPresent: true, ShouldQuit: quit}, ResultSuccess
}

func (f *fakeRuntime) LastError() ErrorInfo { return f.lastError }

func (f *fakeRuntime) DestroySession() { f.log.add("destroy session") }
func (f *fakeRuntime) Shutdown()       { f.log.add("shutdown runtime") }

type blitCall struct {
	fb       Handle
	src, dst Rect
}

type fakeDevice struct {
	log *callLog

	initErr   error
	depthErr  error
	mirrorErr error

	nextHandle Handle
	draws      int
	viewProjs  []mgl.Mat4
	worlds     []mgl.Mat4
	blits      []blitCall
	bound      []TextureID
}

func newFakeDevice(log *callLog) *fakeDevice {
	return &fakeDevice{log: log, nextHandle: 1}
}

func (d *fakeDevice) Init(mesh *Mesh, vs, fs string) error {
	d.log.add("device init")
	return d.initErr
}

func (d *fakeDevice) Release() { d.log.add("device release") }

func (d *fakeDevice) CreateDepthBuffer(size Size) (Handle, error) {
	if d.depthErr != nil {
		return 0, d.depthErr
	}
	h := d.nextHandle
	d.nextHandle++
	d.log.add("create depth %d", h)
	return h, nil
}

func (d *fakeDevice) DeleteDepthBuffer(h Handle) { d.log.add("delete depth %d", h) }

func (d *fakeDevice) SetAndClearRenderSurface(color TextureID, depth Handle, size Size, clear mgl.Vec4) {
	d.log.add("set surface")
	d.bound = append(d.bound, color)
}

func (d *fakeDevice) UnsetRenderSurface() { d.log.add("unset surface") }

func (d *fakeDevice) DrawMesh(viewProj, world mgl.Mat4) {
	d.log.add("draw")
	d.draws++
	d.viewProjs = append(d.viewProjs, viewProj)
	d.worlds = append(d.worlds, world)
}

func (d *fakeDevice) CreateReadFramebuffer(tex TextureID) (Handle, error) {
	if d.mirrorErr != nil {
		return 0, d.mirrorErr
	}
	h := d.nextHandle
	d.nextHandle++
	d.log.add("create mirror fbo %d", h)
	return h, nil
}

func (d *fakeDevice) DeleteFramebuffer(h Handle) { d.log.add("delete mirror fbo %d", h) }

func (d *fakeDevice) BlitToBackbuffer(fb Handle, src, dst Rect) {
	d.log.add("blit")
	d.blits = append(d.blits, blitCall{fb: fb, src: src, dst: dst})
}

type fakeWindow struct {
	log   *callLog
	w, h  int
	swaps int
}

func (w *fakeWindow) Resize(width, height int) { w.w, w.h = width, height }
func (w *fakeWindow) SwapBuffers() {
	w.log.add("swap")
	w.swaps++
}

type fakeReporter struct {
	titles   []string
	messages []string
}

func (r *fakeReporter) ReportFatal(title, message string) {
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
}

// harness bundles a coordinator with its fakes.
type harness struct {
	log      *callLog
	rt       *fakeRuntime
	dev      *fakeDevice
	win      *fakeWindow
	reporter *fakeReporter
	c        *Coordinator
}

func newHarness() *harness {
	log := &callLog{}
	h := &harness{
		log:      log,
		rt:       newFakeRuntime(log),
		dev:      newFakeDevice(log),
		win:      &fakeWindow{log: log},
		reporter: &fakeReporter{},
	}
	cfg := DefaultConfig()
	cfg.Reporter = h.reporter
	h.c = New(h.rt, h.dev, h.win, cfg)
	return h
}
