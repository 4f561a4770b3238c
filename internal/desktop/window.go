// Package desktop содержит окно инспектора кабеля на fyne.
package desktop

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	app "cable-inspector/internal/application"
	"cable-inspector/internal/domain/entity"
	apperrors "cable-inspector/internal/errors"
	"cable-inspector/internal/infrastructure/encoding"
	"cable-inspector/internal/logger"
)

const (
	appTitle       = "Cable Inspector"
	prefKeyLastDir = "lastDirectory"

	// windowSession: ключ единственной сессии окна.
	windowSession int64 = 1

	msgNoImage = "No image loaded."
)

// openExtensions перечисляет форматы, которые можно загрузить.
var openExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}

// MainWindow: окно с изображением, кнопками действий и строкой состояния.
type MainWindow struct {
	fyne.Window
	app      fyne.App
	sessions *app.SessionService
	svc      *app.InspectionService

	view   *fynecanvas.Image
	status *widget.Label
}

// New создаёт главное окно.
func New(fyneApp fyne.App, sessions *app.SessionService, svc *app.InspectionService) *MainWindow {
	mw := &MainWindow{
		Window:   fyneApp.NewWindow(appTitle),
		app:      fyneApp,
		sessions: sessions,
		svc:      svc,
	}
	mw.setupUI()
	return mw
}

func (mw *MainWindow) setupUI() {
	mw.view = fynecanvas.NewImageFromImage(nil)
	mw.view.FillMode = fynecanvas.ImageFillContain
	mw.view.SetMinSize(fyne.NewSize(640, 480))

	mw.status = widget.NewLabel("Ready")
	mw.status.Wrapping = fyne.TextWrapWord

	buttons := container.NewVBox(
		widget.NewButton("Load Image", mw.onLoad),
		widget.NewButton("Measure", mw.onMeasure),
		widget.NewButton("Find Defects", mw.onFindDefects),
		widget.NewSeparator(),
		widget.NewButton("Save Measure", mw.onSaveMeasure),
		widget.NewButton("Save Defects", mw.onSaveDefects),
		widget.NewSeparator(),
		widget.NewButton("Exit", mw.onExit),
	)

	content := container.NewBorder(
		nil,                            // сверху
		container.NewPadded(mw.status), // снизу
		buttons,                        // слева
		nil,                            // справа
		mw.view,                        // в центре
	)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(960, 640))
}

func (mw *MainWindow) onLoad() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.LoadPath(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(openExtensions))
	if loc := mw.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// LoadPath загружает файл (или путь azblob://) в сессию окна.
func (mw *MainWindow) LoadPath(path string) {
	if filepath.IsAbs(path) {
		mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(path))
	}

	session, err := mw.svc.Load(context.Background(), windowSession, 0, path)
	if err != nil {
		mw.showError(err)
		return
	}
	mw.show(session.Input)
	mw.setStatus(fmt.Sprintf("%s: %d×%d", filepath.Base(path), session.Input.Cols, session.Input.Rows))
}

func (mw *MainWindow) onMeasure() {
	ctx := context.Background()
	res, err := mw.svc.Measure(ctx, windowSession, 0)
	if err != nil {
		mw.showError(err)
		return
	}
	mw.show(res.Annotated)
	mw.describe(ctx, &entity.InspectionResult{Measure: res})
}

func (mw *MainWindow) onFindDefects() {
	ctx := context.Background()
	res, err := mw.svc.FindDefects(ctx, windowSession, 0)
	if err != nil {
		mw.showError(err)
		return
	}
	mw.show(res.Annotated)
	mw.describe(ctx, &entity.InspectionResult{Defects: res})
}

func (mw *MainWindow) onSaveMeasure() {
	mw.saveAs("measure.png", func(path string) error {
		return mw.svc.SaveMeasure(context.Background(), windowSession, 0, path)
	})
}

func (mw *MainWindow) onSaveDefects() {
	mw.saveAs("defects.png", func(path string) error {
		return mw.svc.SaveDefects(context.Background(), windowSession, 0, path)
	})
}

// saveAs спрашивает путь и сохраняет результат; без загруженного изображения диалог не открывается.
func (mw *MainWindow) saveAs(defaultName string, save func(path string) error) {
	if !mw.hasInput() {
		dialog.ShowInformation(appTitle, msgNoImage, mw.Window)
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()

		path := withImageExt(writer.URI().Path())
		if err := save(path); err != nil {
			mw.showError(err)
			return
		}
		mw.setStatus("Saved " + path)
	}, mw.Window)
	fd.SetFileName(defaultName)
	if loc := mw.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExit() {
	if err := mw.svc.Close(context.Background(), windowSession); err != nil {
		logger.WithError(err).Warn("could not close session")
	}
	mw.app.Quit()
}

func (mw *MainWindow) hasInput() bool {
	session, err := mw.sessions.Get(context.Background(), windowSession, 0)
	return err == nil && session.HasInput()
}

func (mw *MainWindow) show(r entity.Raster) {
	img, err := encoding.ToImage(r)
	if err != nil {
		mw.showError(err)
		return
	}
	mw.view.Image = img
	mw.view.Refresh()
}

func (mw *MainWindow) describe(ctx context.Context, result *entity.InspectionResult) {
	desc, err := mw.svc.Describe(ctx, result)
	if err != nil {
		logger.WithError(err).Warn("could not describe result")
		return
	}
	mw.setStatus(desc.Text)
}

func (mw *MainWindow) setStatus(text string) {
	mw.status.SetText(text)
}

func (mw *MainWindow) showError(err error) {
	if apperrors.IsType(err, apperrors.ErrorTypePrecondition) {
		dialog.ShowInformation(appTitle, msgNoImage, mw.Window)
		return
	}
	logger.WithError(err).Error("desktop action failed")
	dialog.ShowError(err, mw.Window)
}

func (mw *MainWindow) lastDir() fyne.ListableURI {
	dir := mw.app.Preferences().String(prefKeyLastDir)
	if dir == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return listable
}

// withImageExt добавляет .png, если у пути нет поддерживаемого расширения.
func withImageExt(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range encoding.SupportedExtensions {
		if ext == known {
			return path
		}
	}
	return path + ".png"
}
