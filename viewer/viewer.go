package viewer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/achilleasa/hzb-viewer/log"
	"github.com/achilleasa/hzb-viewer/renderer"
	"github.com/achilleasa/hzb-viewer/scene"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.1/glfw"
)

const (
	// Camera movement speed in world units per second.
	DefaultMoveSpeed float32 = 5

	// Degrees of rotation per pixel of cursor movement.
	DefaultMouseSensitivity float32 = 0.1

	// Interval for updating the window title and logging frame stats.
	statsInterval = time.Second
)

// glfw event handling and all gl calls must happen on the main thread.
func init() {
	runtime.LockOSThread()
}

type Options struct {
	FrameW, FrameH   uint32
	Title            string
	MoveSpeed        float32
	MouseSensitivity float32
}

// Viewer displays the output of a renderer in an interactive window and
// drives the scene camera from keyboard and mouse input.
type Viewer struct {
	logger log.Logger

	renderer renderer.Renderer
	camera   *scene.Camera
	opts     Options

	// opengl handles
	window *glfw.Window
	texFbo uint32

	input     *inputState
	showStats bool
	showDepth bool
}

// Create a new viewer window for r.
func New(r renderer.Renderer, camera *scene.Camera, opts Options) (*Viewer, error) {
	if opts.MoveSpeed == 0 {
		opts.MoveSpeed = DefaultMoveSpeed
	}
	if opts.MouseSensitivity == 0 {
		opts.MouseSensitivity = DefaultMouseSensitivity
	}
	if opts.Title == "" {
		opts.Title = "hzb-viewer"
	}

	v := &Viewer{
		logger:   log.New("viewer"),
		renderer: r,
		camera:   camera,
		opts:     opts,
		input:    newInputState(),
	}

	if err := v.initGL(); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

func (v *Viewer) initGL() error {
	var err error
	if err = glfw.Init(); err != nil {
		return fmt.Errorf("viewer: failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	v.window, err = glfw.CreateWindow(int(v.opts.FrameW), int(v.opts.FrameH), v.opts.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("viewer: could not create opengl window: %w", err)
	}
	v.window.MakeContextCurrent()
	glfw.SwapInterval(0)

	if err = gl.Init(); err != nil {
		return fmt.Errorf("viewer: could not init opengl: %w", err)
	}

	// Setup texture for frame data
	var fbTexture uint32
	gl.GenTextures(1, &fbTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, fbTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(v.opts.FrameW), int32(v.opts.FrameH), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	// Attach texture to FBO
	gl.GenFramebuffers(1, &v.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, v.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fbTexture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	// Bind event callbacks
	v.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	v.window.SetKeyCallback(v.onKeyEvent)
	v.window.SetCursorPosCallback(v.onCursorPosEvent)

	return nil
}

func (v *Viewer) Close() {
	if v.window != nil {
		v.window.Destroy()
		v.window = nil
	}
	glfw.Terminate()
}

// Run the frame loop until the window is closed or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	v.logger.Notice("controls: WASD/arrows move, mouse looks, 1-3 switch mode, Z toggles depth view, Tab logs stats, Esc quits")

	var (
		lastFrame  = time.Now()
		lastStats  = lastFrame
		frames     int
		accumStats renderer.FrameStats
	)
	for !v.window.ShouldClose() {
		glfw.PollEvents()

		now := time.Now()
		dt := float32(now.Sub(lastFrame).Seconds())
		lastFrame = now
		v.input.move(v.camera, v.opts.MoveSpeed, dt)

		err := v.renderer.Render(ctx)
		if errors.Is(err, renderer.ErrInterrupted) {
			return nil
		} else if err != nil {
			return err
		}
		v.present()

		frames++
		accumStats.Add(v.renderer.Stats())
		if elapsed := now.Sub(lastStats); elapsed >= statsInterval {
			v.reportStats(accumStats.Div(frames), float64(frames)/elapsed.Seconds())
			frames, lastStats, accumStats = 0, now, renderer.FrameStats{}
		}
	}
	return nil
}

// present uploads the selected renderer buffer and copies it to the window.
func (v *Viewer) present() {
	kind := renderer.FrameBufferKind
	if v.showDepth {
		kind = renderer.DepthBufferKind
	}
	img := renderer.Image(v.renderer.Buffers(), kind)

	frameW, frameH := int32(v.opts.FrameW), int32(v.opts.FrameH)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, frameW, frameH, gl.LUMINANCE, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	// Image rows start at the top so the blit flips the y axis.
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, v.texFbo)
	gl.BlitFramebuffer(0, 0, frameW, frameH, 0, frameH, frameW, 0, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	v.window.SwapBuffers()
}

func (v *Viewer) reportStats(stats renderer.FrameStats, fps float64) {
	v.window.SetTitle(fmt.Sprintf("%s [%s] %3.1f fps", v.opts.Title, stats.Mode, fps))
	if !v.showStats {
		return
	}
	v.logger.Noticef(
		"[%s] %3.1f fps, render %s, rasterized %d/%d triangles (%02.1f %% culled), hzb nodes visited %d, %s",
		stats.Mode, fps, stats.RenderTime, stats.Rasterized, stats.Triangles, stats.CulledPercent(), stats.HZBNodesVisited, v.camera,
	)
}

func (v *Viewer) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	v.input.onKey(key, action, mods)
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		v.window.SetShouldClose(true)
	case glfw.Key1, glfw.Key2, glfw.Key3:
		mode := renderer.Modes[key-glfw.Key1]
		v.renderer.SetMode(mode)
		v.logger.Noticef("switched to %s mode", mode)
	case glfw.KeyZ:
		v.showDepth = !v.showDepth
	case glfw.KeyTab:
		v.showStats = !v.showStats
	}
}

func (v *Viewer) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	yaw, pitch := v.input.look(xPos, yPos, v.opts.MouseSensitivity)
	if yaw == 0 && pitch == 0 {
		return
	}
	v.camera.Rotate(yaw, pitch)
}
