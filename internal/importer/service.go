package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/AbduDark/MobileLinesManager/internal/apperr"
	"github.com/AbduDark/MobileLinesManager/internal/auditlog"
	"github.com/AbduDark/MobileLinesManager/internal/group"
	"github.com/AbduDark/MobileLinesManager/internal/line"
)

// CSV column order:
// PhoneNumber,SerialNumber,AssociatedName,NationalId,CashWalletId,Notes
// Trailing columns may be omitted; a header row is skipped.
const csvColumns = 6

// QR payloads are pipe-separated:
// PhoneNumber|SerialNumber|GroupId|CashWalletId|AssociatedName|NationalId
const qrFields = 6

type Service interface {
	ImportCSV(ctx context.Context, groupID uint, r io.Reader, actorID *uint, ip string) (*Result, error)
	ImportQRPayload(ctx context.Context, payload string, actorID *uint, ip string) (*line.Line, error)
}

type service struct {
	lines  line.Repository
	groups group.Repository
	audit  auditlog.Service
}

func NewService(lines line.Repository, groups group.Repository, audit auditlog.Service) Service {
	return &service{lines: lines, groups: groups, audit: audit}
}

// ImportCSV reads lines into one group. Capacity is tracked across the batch
// so a file longer than the remaining capacity fails rows past the limit
// instead of overfilling the group.
func (s *service) ImportCSV(ctx context.Context, groupID uint, r io.Reader, actorID *uint, ip string) (*Result, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.ErrGroupNotFound
	}

	result := &Result{
		BatchID:  uuid.NewString(),
		Failures: []RowError{},
	}
	currentCount := g.CurrentLinesCount

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowNum++
			result.TotalProcessed++
			result.Failures = append(result.Failures, RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("malformed row: %v", err),
			})
			continue
		}
		rowNum++

		// Header row
		if rowNum == 1 && len(record) > 0 && isHeaderCell(record[0]) {
			continue
		}

		result.TotalProcessed++

		l, rowErr := parseCSVRow(record)
		if rowErr != "" {
			result.Failures = append(result.Failures, RowError{Row: rowNum, Message: rowErr})
			continue
		}
		l.GroupID = groupID

		if currentCount >= g.MaxLinesCount {
			result.Failures = append(result.Failures, RowError{
				Row:     rowNum,
				Phone:   l.PhoneNumber,
				Message: apperr.ErrGroupFull.Error(),
			})
			continue
		}

		exists, err := s.lines.PhoneExists(ctx, l.PhoneNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Failures = append(result.Failures, RowError{
				Row:     rowNum,
				Phone:   l.PhoneNumber,
				Message: apperr.ErrDuplicatePhone.Error(),
			})
			continue
		}

		l.Status = line.StatusAvailable
		if err := s.lines.Create(ctx, l); err != nil {
			result.Failures = append(result.Failures, RowError{
				Row:     rowNum,
				Phone:   l.PhoneNumber,
				Message: err.Error(),
			})
			continue
		}

		currentCount++
		result.SuccessCount++
	}

	s.audit.Log(ctx, actorID, auditlog.EntityGroup, groupID, auditlog.ActionImport,
		fmt.Sprintf("batch %s imported into group %q: %d/%d rows",
			result.BatchID, g.Name, result.SuccessCount, result.TotalProcessed), ip)
	return result, nil
}

func isHeaderCell(cell string) bool {
	cell = strings.TrimSpace(cell)
	return strings.EqualFold(cell, "PhoneNumber") || strings.EqualFold(cell, "phone")
}

func parseCSVRow(record []string) (*line.Line, string) {
	if len(record) < 1 || strings.TrimSpace(record[0]) == "" {
		return nil, apperr.ErrPhoneRequired.Error()
	}
	if len(record) > csvColumns {
		return nil, fmt.Sprintf("expected at most %d columns, got %d", csvColumns, len(record))
	}

	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	return &line.Line{
		PhoneNumber:    field(0),
		SerialNumber:   field(1),
		AssociatedName: field(2),
		NationalID:     field(3),
		CashWalletID:   field(4),
		Notes:          field(5),
	}, ""
}

// ImportQRPayload decodes one scanned QR payload and adds the line it
// describes.
func (s *service) ImportQRPayload(ctx context.Context, payload string, actorID *uint, ip string) (*line.Line, error) {
	parts := strings.Split(strings.TrimSpace(payload), "|")
	if len(parts) != qrFields {
		return nil, apperr.ErrInvalidQRPayload
	}

	phone := strings.TrimSpace(parts[0])
	if phone == "" {
		return nil, apperr.ErrPhoneRequired
	}

	groupID, err := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 32)
	if err != nil {
		return nil, apperr.ErrInvalidQRPayload
	}

	g, err := s.groups.GetByID(ctx, uint(groupID))
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.ErrGroupNotFound
	}
	if g.IsFull() {
		return nil, apperr.ErrGroupFull
	}

	exists, err := s.lines.PhoneExists(ctx, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrDuplicatePhone
	}

	l := &line.Line{
		GroupID:        uint(groupID),
		PhoneNumber:    phone,
		SerialNumber:   strings.TrimSpace(parts[1]),
		CashWalletID:   strings.TrimSpace(parts[3]),
		AssociatedName: strings.TrimSpace(parts[4]),
		NationalID:     strings.TrimSpace(parts[5]),
		Status:         line.StatusAvailable,
	}
	if err := s.lines.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create line from QR: %w", err)
	}

	s.audit.Log(ctx, actorID, auditlog.EntityLine, l.ID, auditlog.ActionImport,
		fmt.Sprintf("line %s imported from QR into group %q", l.PhoneNumber, g.Name), ip)
	return l, nil
}
