package main

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniagendas/internal/platform/kafka"
	"uniagendas/pkg/platform/audit"
	"uniagendas/pkg/taxpayer"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestProtocolGenerate(t *testing.T) {
	out, _, err := execute(t, "protocol", "generate", "--category", "aut", "--count", "3", "--seed", "7")
	require.NoError(t, err)

	codes := lines(out)
	require.Len(t, codes, 3)
	for _, code := range codes {
		assert.Regexp(t, regexp.MustCompile(`^AUT[1-9]\d{5}$`), code)
	}

	again, _, err := execute(t, "protocol", "generate", "--category", "aut", "--count", "3", "--seed", "7")
	require.NoError(t, err)
	assert.Equal(t, out, again, "same seed prints the same codes")
}

func TestProtocolGenerateUnknownCategory(t *testing.T) {
	out, errOut, err := execute(t, "protocol", "generate", "--category", "surgery", "--seed", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ATD"))
	assert.Contains(t, errOut, `unknown category "surgery"`)
}

func TestProtocolDated(t *testing.T) {
	out, _, err := execute(t, "protocol", "dated", "--prefix", "hc", "-n", "2")
	require.NoError(t, err)
	for _, code := range lines(out) {
		assert.Regexp(t, regexp.MustCompile(`^HC\d{8}\d{4}$`), code)
	}

	_, _, err = execute(t, "protocol", "dated", "--count", "0")
	assert.Error(t, err)
}

func TestCPFValidate(t *testing.T) {
	out, _, err := execute(t, "cpf", "validate", "52998224725")
	require.NoError(t, err)
	assert.Equal(t, "52998224725\tvalid\t529.982.247-25\n", out)

	out, _, err = execute(t, "cpf", "validate", "529.982.247-25", "111.111.111-11")
	assert.ErrorIs(t, err, errInvalidCPF)
	assert.Contains(t, out, "111.111.111-11\tinvalid")
}

func TestCPFFormat(t *testing.T) {
	out, _, err := execute(t, "cpf", "format", "52998224725")
	require.NoError(t, err)
	assert.Equal(t, "529.982.247-25\n", out)
}

func TestCPFGenerate(t *testing.T) {
	out, _, err := execute(t, "cpf", "generate", "-n", "20", "--seed", "42")
	require.NoError(t, err)

	cpfs := lines(out)
	require.Len(t, cpfs, 20)
	for _, cpf := range cpfs {
		assert.True(t, taxpayer.IsValid(cpf), cpf)
		assert.Regexp(t, regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`), cpf)
	}

	digits, _, err := execute(t, "cpf", "generate", "--digits", "--seed", "42")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{11}\n$`), digits)
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, _, err := execute(t, "migrate", "up")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestPrintEvents(t *testing.T) {
	var out, errOut bytes.Buffer
	handler := printEvents(&out, &errOut)

	value, err := json.Marshal(audit.Event{Action: string(audit.EventAppointmentConfirmed), Subject: "appt-1", Protocol: "AGD482913"})
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), &kafka.Received{Topic: "uniagendas.appointments", Value: value}))
	require.NoError(t, handler.Handle(context.Background(), &kafka.Received{Topic: "uniagendas.appointments", Value: []byte("not json")}))

	var event audit.Event
	require.NoError(t, json.Unmarshal(out.Bytes(), &event))
	assert.Equal(t, "AGD482913", event.Protocol)
	assert.Contains(t, errOut.String(), "skipping record")
}
