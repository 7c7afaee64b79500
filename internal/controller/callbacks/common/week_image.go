package common

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth         = 980
	imageHeight        = 640
	headerHeight       = 56
	leftLabelsWidth    = 52
	legendWidth        = 110
	dayPaddingX        = 4
	minSessionHeight   = 10.0
	sessionRadius      = 4.0
	shadowOffset       = 2.0
	totalDaysInWeek    = 7
	hourPaddingTop     = 1
	hourPaddingBot     = 1
	defaultMinHour     = 8
	defaultMaxHour     = 20
	maxLabelCharacters = 16
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 255}
	hourLabelColor   = color.RGBA{110, 115, 120, 255}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{228, 228, 228, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	sessionPendingColor   = color.RGBA{255, 214, 140, 235}
	sessionConfirmedColor = color.RGBA{133, 193, 85, 235}
	sessionActiveColor    = color.RGBA{110, 170, 235, 235}
	sessionDoneColor      = color.RGBA{190, 190, 190, 220}
	sessionCancelledColor = color.RGBA{255, 182, 193, 200}
	sessionTextColor      = color.RGBA{20, 24, 28, 255}
	sessionShadowColor    = color.RGBA{0, 0, 0, 20}
)

// hourRange диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// WeekImage входные данные картинки недели
type WeekImage struct {
	WeekStart    model.Date // понедельник
	Sessions     []model.Session
	Tutor        *model.Tutor
	StudentNames map[int64]string
	Now          time.Time
}

// GenerateWeekImage рисует неделю сессий в PNG. Время на картинке в UTC.
func GenerateWeekImage(w WeekImage) ([]byte, error) {
	weekStart := WeekStart(w.WeekStart)
	today := model.NewDate(w.Now)
	highlightToday := !today.Before(weekStart) && !today.After(weekStart.AddDays(6))

	byDay := groupSessionsByDay(w.Sessions)
	hours := calculateHourRange(w.Sessions)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, weekStart)
	drawHourLabels(dc, hours, cellHeight)
	for i := 0; i < totalDaysInWeek; i++ {
		day := weekStart.AddDays(i)
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, highlightToday && day.Equal(today.Time))
		drawDayHeader(dc, day, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, s := range byDay[day.String()] {
			drawSession(dc, s, w, x, y, dayWidth, hours, cellHeight)
		}
	}
	if highlightToday {
		drawCurrentTimeLine(dc, w.Now.UTC(), hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}

// WeekStart понедельник недели, в которую попадает дата
func WeekStart(d model.Date) model.Date {
	offset := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		offset = 6
	}
	return d.AddDays(-offset)
}

func groupSessionsByDay(sessions []model.Session) map[string][]model.Session {
	byDay := make(map[string][]model.Session)
	for _, s := range sessions {
		key := model.NewDate(s.SessionDate.UTC()).String()
		byDay[key] = append(byDay[key], s)
	}
	return byDay
}

// calculateHourRange часы, которые нужно показать, с запасом сверху и снизу
func calculateHourRange(sessions []model.Session) hourRange {
	minHour, maxHour := 24, 0
	for i := range sessions {
		start, end := sessions[i].Interval()
		start, end = start.UTC(), end.UTC()

		startH := start.Hour()
		endH := end.Hour()
		if end.Minute() > 0 {
			endH++
		}
		if end.YearDay() != start.YearDay() {
			endH = 24
		}
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour, maxHour = defaultMinHour, defaultMaxHour
	}

	start := minHour - hourPaddingTop
	end := maxHour + hourPaddingBot
	if start < 0 {
		start = 0
	}
	if end > 24 {
		end = 24
	}
	return hourRange{start: start, end: end, total: end - start}
}

func drawHeader(dc *gg.Context, weekStart model.Date) {
	end := weekStart.AddDays(6)
	title := formatting.GetMonthTitle(weekStart.Year(), weekStart.Month())
	if end.Month() != weekStart.Month() {
		title = weekStart.Month().String() + " - " + formatting.GetMonthTitle(end.Year(), end.Month())
	}
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/4, 0, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for i := 0; i <= hours.total; i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+i), float64(leftLabelsWidth)-6, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, day model.Date, x, y float64, dayWidth int) {
	dc.SetColor(textColor)
	label := fmt.Sprintf("%s %s", formatting.GetWeekdayShort(day.Weekday()), day.Format("02.01"))
	dc.DrawStringAnchored(label, x+float64(dayWidth)/2, y-8, 0.5, 0)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for i := 0; i <= hours.total; i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawSession(dc *gg.Context, s model.Session, w WeekImage, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	start, end := s.Interval()
	start = start.UTC()
	startHour := float64(start.Hour()) + float64(start.Minute())/60
	endHour := startHour + end.Sub(start).Hours()
	if endHour > float64(hours.end) {
		endHour = float64(hours.end)
	}

	sy := y + (startHour-float64(hours.start))*cellHeight
	sh := (endHour - startHour) * cellHeight
	if sh < minSessionHeight {
		sh = minSessionHeight
	}
	sw := float64(dayWidth) - float64(dayPaddingX*2)
	fill := sessionColor(s.Status)

	dc.SetColor(sessionShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, sy+1+shadowOffset, sw, sh-2, sessionRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, sy+1, sw, sh-2, sessionRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, sy+1, sw, sh-2, sessionRadius)
	dc.Stroke()

	dc.SetColor(sessionTextColor)
	tx := x + dayPaddingX + 4
	dc.DrawStringAnchored(start.Format("15:04"), tx, sy+12, 0, 0)

	if sh > 28 {
		dc.DrawStringAnchored(truncate(sessionLabel(s, w)), tx, sy+26, 0, 0)
	}
}

// sessionLabel имя ученика для индивидуальной сессии, иначе предмет
func sessionLabel(s model.Session, w WeekImage) string {
	if len(s.StudentIDs) == 1 {
		if name, ok := w.StudentNames[s.StudentIDs[0]]; ok && name != "" {
			return name
		}
	}
	if w.Tutor != nil {
		if name := w.Tutor.SubjectName(s.Subject); name != "" {
			return name
		}
	}
	return formatting.PluralizeStudents(len(s.StudentIDs))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelCharacters {
		return s
	}
	return string(r[:maxLabelCharacters-3]) + "..."
}

func sessionColor(status model.SessionStatus) color.RGBA {
	switch status {
	case model.SessionStatusPending:
		return sessionPendingColor
	case model.SessionStatusConfirmed:
		return sessionConfirmedColor
	case model.SessionStatusInProgress:
		return sessionActiveColor
	case model.SessionStatusCompleted:
		return sessionDoneColor
	default:
		return sessionCancelledColor
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	current := float64(now.Hour()) + float64(now.Minute())/60
	if current < float64(hours.start) || current > float64(hours.end) {
		return
	}
	y := float64(headerHeight) + (current-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2)
	dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), y)
	dc.Stroke()
}

func drawLegend(dc *gg.Context, dayWidth int) {
	x := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	y := float64(imageHeight) - 130

	items := []struct {
		label string
		clr   color.Color
	}{
		{"Pending", sessionPendingColor},
		{"Confirmed", sessionConfirmedColor},
		{"In progress", sessionActiveColor},
		{"Completed", sessionDoneColor},
		{"Cancelled", sessionCancelledColor},
	}

	const boxW, boxH = 16.0, 12.0
	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(item.label, x+boxW+6, y+boxH/2, 0, 0.5)
		y += boxH + 10
	}
}
