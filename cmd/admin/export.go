package main

import (
	"fmt"
	"io"
	"shopchat/backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	timeLayout = "02.01.2006 15:04:05"
	sheetName  = "Conversation"
)

var exportHeaders = []string{"ID", "Sender", "Message", "Sent at", "Read"}

func printHistory(w io.Writer, items []models.HistoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No messages.")
		return
	}
	for _, item := range items {
		read := " "
		if item.IsRead {
			read = "✓"
		}
		fmt.Fprintf(w, "#%d [%s] %s %s: %s\n", item.ID, item.CreatedAt.Format(timeLayout), read, item.SenderID, item.Text)
	}
}

// exportConversation writes one row per message, oldest first, to an xlsx file.
func exportConversation(filePath, conversationID string, items []models.HistoryItem) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SetDocProps(&excelize.DocProperties{Title: "Conversation " + conversationID}); err != nil {
		return err
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}

	for i, item := range items {
		row := i + 2
		sender := item.SenderID
		if item.IsAdmin {
			sender = "support"
		}
		values := []any{item.ID, sender, item.Text, item.CreatedAt.Format(timeLayout), item.IsRead}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}
	_ = f.SetColWidth(sheetName, "C", "C", 60)

	return f.SaveAs(filePath)
}
