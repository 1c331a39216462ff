package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
	"github.com/opshift-dev/shift-planner/backend/internal/schedule"
)

// ExportPublishedSchedule renders a snapshot as an .xlsx week sheet,
// one row per slot with the assignees grouped by role.
func (h *Handler) ExportPublishedSchedule(w http.ResponseWriter, r *http.Request) {
	ps := r.Context().Value(PublishedScheduleCtx).(*domain.PublishedSchedule)

	payload, err := schedule.ParsePayload(ps.Payload)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := "Schedule"
	index, err := f.NewSheet(sheet)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	title := fmt.Sprintf("Week of %s", payload.WeekStart)
	f.SetCellValue(sheet, "A1", title)
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	}
	f.MergeCell(sheet, "A1", "F1")

	headers := []string{"Day", "Shift", "Time", "Break", "Openers", "Closers"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, hd)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A2", "F2", headerStyle)
	}

	row := 3
	for _, slot := range payload.Slots {
		shiftName := slot.TemplateName
		timeWindow := ""
		breakLabel := ""
		if slot.TemplateID != 0 {
			timeWindow = fmt.Sprintf("%s-%s", slot.StartTime, slot.EndTime)
			breakLabel = fmt.Sprintf("%d min", slot.BreakMinutes)
		} else {
			shiftName = "(no template)"
		}

		byRole := make(map[domain.Role][]string)
		for _, a := range slot.Assignees {
			byRole[a.Role] = append(byRole[a.Role], a.FullName)
		}

		values := []any{
			slot.DayLabel,
			shiftName,
			timeWindow,
			breakLabel,
			strings.Join(byRole[domain.RoleOpener], ", "),
			strings.Join(byRole[domain.RoleCloser], ", "),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	for col, width := range map[string]float64{"A": 22, "B": 18, "C": 14, "D": 10, "E": 30, "F": 30} {
		f.SetColWidth(sheet, col, col, width)
	}

	filename := fmt.Sprintf("schedule_%s.xlsx", payload.WeekStart)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	if err := f.Write(w); err != nil {
		h.logInternalServerError(r, err)
	}
}
