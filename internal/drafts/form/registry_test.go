package form

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gate2way/gate2way-backend/internal/drafts/domain"
	"github.com/gate2way/gate2way-backend/internal/drafts/validation"
)

func fill(t *testing.T, r *Registry) {
	t.Helper()
	require.NoError(t, r.SetValue(domain.FieldNome, "Plataforma de ensaios"))
	require.NoError(t, r.SetValue(domain.FieldDescricao, "Bancada compartilhada"))
	require.NoError(t, r.SetValue(domain.FieldProgramaID, float64(2)))
	require.NoError(t, r.SetValue(domain.FieldDataInicio, "2024-05-01"))
	require.NoError(t, r.SetValue(domain.FieldDataFim, "2024-06-01"))
	require.NoError(t, r.SetValue(domain.FieldPrioridade, "1"))
}

func TestRegistry_SetValue(t *testing.T) {
	r := NewRegistry(nil)
	fill(t, r)

	snap := r.Snapshot()
	assert.Equal(t, "Plataforma de ensaios", snap.Nome)
	assert.Equal(t, 2, snap.ProgramaID)
	assert.Equal(t, 1, snap.Prioridade)
	assert.Equal(t, "2024-05-01", snap.DataInicio.String())
	assert.Empty(t, r.Errors())
	assert.True(t, r.Dirty()[domain.FieldNome])
	assert.True(t, r.IsDirty())
}

func TestRegistry_UnknownField(t *testing.T) {
	r := NewRegistry(nil)
	assert.ErrorIs(t, r.SetValue("orcamento", 10), domain.ErrUnknownField)
}

func TestRegistry_TypeErrorKeepsPreviousValue(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.SetValue(domain.FieldProgramaID, float64(3)))
	require.NoError(t, r.SetValue(domain.FieldProgramaID, "abc"))

	assert.Equal(t, 3, r.Snapshot().ProgramaID)
	assert.Equal(t, validation.TypeMessage, r.Errors()[domain.FieldProgramaID])

	require.NoError(t, r.SetValue(domain.FieldProgramaID, float64(4)))
	assert.NotContains(t, r.Errors(), domain.FieldProgramaID)
}

func TestRegistry_FieldErrorsOnChange(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.SetValue(domain.FieldNome, "  "))
	assert.Contains(t, r.Errors(), domain.FieldNome)
	// untouched fields stay quiet
	assert.NotContains(t, r.Errors(), domain.FieldDescricao)
}

func TestRegistry_DateDependency(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.SetValue(domain.FieldDataInicio, "2024-05-10"))
	require.NoError(t, r.SetValue(domain.FieldDataFim, "2024-05-01"))
	assert.Contains(t, r.Errors(), domain.FieldDataInicio)

	require.NoError(t, r.SetValue(domain.FieldDataFim, "2024-06-01"))
	assert.NotContains(t, r.Errors(), domain.FieldDataInicio)
}

func TestRegistry_ImpulsoToggle(t *testing.T) {
	r := NewRegistry(nil)
	fill(t, r)

	require.NoError(t, r.SetValue(domain.FieldPossuiImpulso, true))
	assert.True(t, r.FieldStates()[domain.FieldImpulsoID].Required)

	errs := r.ValidateAll()
	assert.Contains(t, errs, domain.FieldImpulsoID)

	require.NoError(t, r.SetValue(domain.FieldImpulsoID, float64(9)))
	assert.NotContains(t, r.Errors(), domain.FieldImpulsoID)

	require.NoError(t, r.SetValue(domain.FieldImpulsoID, nil))
	assert.Contains(t, r.Errors(), domain.FieldImpulsoID)

	require.NoError(t, r.SetValue(domain.FieldPossuiImpulso, false))
	assert.NotContains(t, r.Errors(), domain.FieldImpulsoID)
	assert.False(t, r.FieldStates()[domain.FieldImpulsoID].Visible)
	assert.Empty(t, r.ValidateAll())
}

func TestRegistry_ToggleOffClearsHiddenValue(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.SetValue(domain.FieldPossuiImpulso, "true"))
	require.NoError(t, r.SetValue(domain.FieldImpulsoID, "5"))
	require.Equal(t, 5, *r.Snapshot().ImpulsoID)

	require.NoError(t, r.SetValue(domain.FieldPossuiImpulso, false))
	assert.Nil(t, r.Snapshot().ImpulsoID)
}

func TestRegistry_HiddenFieldHoldsNoValue(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.SetValue(domain.FieldPossuiImpulso, false))
	require.NoError(t, r.SetValue(domain.FieldImpulsoID, float64(7)))

	assert.Nil(t, r.Snapshot().ImpulsoID)
	assert.False(t, r.FieldStates()[domain.FieldImpulsoID].Visible)
	assert.NotContains(t, r.Errors(), domain.FieldImpulsoID)

	// turning the toggle on does not bring back an id the user never saw
	require.NoError(t, r.SetValue(domain.FieldPossuiImpulso, true))
	assert.Nil(t, r.Snapshot().ImpulsoID)
}

func TestRegistry_OutOfRangeNumberIsTypeError(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.SetValue(domain.FieldProgramaID, float64(2)))
	require.NoError(t, r.SetValue(domain.FieldProgramaID, 1e20))

	assert.Equal(t, 2, r.Snapshot().ProgramaID)
	assert.Equal(t, validation.TypeMessage, r.Errors()[domain.FieldProgramaID])
}

func TestRegistry_LoadedStartDateRevalidatesOnEndChange(t *testing.T) {
	r := NewRegistry(nil)
	inicio := domain.NewDate(2024, time.March, 10)
	fim := domain.NewDate(2024, time.June, 1)
	require.NoError(t, r.Reset(domain.ProjectDraft{
		Nome:       "Servidor",
		Descricao:  "Registro",
		ProgramaID: 1,
		DataInicio: &inicio,
		DataFim:    &fim,
		Prioridade: 2,
	}))

	require.NoError(t, r.SetValue(domain.FieldDataFim, "2024-03-01"))
	assert.Contains(t, r.Errors(), domain.FieldDataInicio)

	require.NoError(t, r.SetValue(domain.FieldDataFim, "2024-04-01"))
	assert.NotContains(t, r.Errors(), domain.FieldDataInicio)
}

func TestRegistry_OptionalCodes(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.SetValue(domain.FieldTRL, float64(2)))
	require.NoError(t, r.SetValue(domain.FieldAcatech, "Indefinido"))

	snap := r.Snapshot()
	assert.Equal(t, 2, *snap.TRL)
	assert.Nil(t, snap.Acatech)
}

func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.SetValue(domain.FieldNome, ""))
	require.NotEmpty(t, r.Errors())

	inicio := domain.NewDate(2024, time.January, 2)
	record := domain.ProjectDraft{
		Nome:       "Servidor",
		Descricao:  "Registro",
		ProgramaID: 1,
		DataInicio: &inicio,
		Prioridade: 3,
		ImpulsoID:  domain.IntPtr(4),
	}
	require.NoError(t, r.Reset(record))

	snap := r.Snapshot()
	assert.Equal(t, "Servidor", snap.Nome)
	assert.Nil(t, snap.ImpulsoID, "stale incentive dropped when toggle is off")
	assert.Empty(t, r.Errors())
	assert.Empty(t, r.Dirty())
	assert.False(t, r.IsDirty())
	assert.True(t, r.Loaded())

	assert.ErrorIs(t, r.Reset(record), domain.ErrAlreadyLoaded)
}

func TestRegistry_RootError(t *testing.T) {
	r := NewRegistry(nil)
	fill(t, r)
	before := r.Snapshot()

	r.SetRootError(domain.PermissionDeniedMessage)
	assert.Equal(t, domain.PermissionDeniedMessage, r.RootError())
	assert.Equal(t, before, r.Snapshot())

	r.ClearRootError()
	assert.Empty(t, r.RootError())
}

func TestRegistry_SnapshotIsCopy(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.SetValue(domain.FieldTRL, float64(1)))

	snap := r.Snapshot()
	*snap.TRL = 3
	assert.Equal(t, 1, *r.Snapshot().TRL)
}

func TestRegistry_JSONRoundTrip(t *testing.T) {
	r := NewRegistry(nil)
	fill(t, r)
	require.NoError(t, r.SetValue(domain.FieldPossuiImpulso, true))
	r.ValidateAll()
	r.SetRootError("x")

	b, err := json.Marshal(r)
	require.NoError(t, err)

	restored := NewRegistry(nil)
	require.NoError(t, json.Unmarshal(b, restored))

	assert.Equal(t, r.Snapshot(), restored.Snapshot())
	assert.Equal(t, r.Errors(), restored.Errors())
	assert.Equal(t, r.Dirty(), restored.Dirty())
	assert.Equal(t, "x", restored.RootError())

	require.NoError(t, restored.SetValue(domain.FieldImpulsoID, float64(1)))
	assert.NotContains(t, restored.Errors(), domain.FieldImpulsoID)
}
