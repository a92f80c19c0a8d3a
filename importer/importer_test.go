package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelmap/xsd2model/modelinfo"
	"github.com/modelmap/xsd2model/xsd"
)

type testLogger testing.T

func (t *testLogger) Printf(format string, v ...interface{}) {
	t.Logf(format, v...)
}

const clinicSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:tns="http://example.org/clinic"
           targetNamespace="http://example.org/clinic">
  <xs:simpleType name="PatientId">
    <xs:restriction base="xs:string"/>
  </xs:simpleType>
  <xs:simpleType name="StrictPatientId">
    <xs:restriction base="tns:PatientId"/>
  </xs:simpleType>
  <xs:complexType name="Visit">
    <xs:sequence>
      <xs:element name="date" type="xs:date"/>
      <xs:element name="reason" type="xs:string" minOccurs="0"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="Patient">
    <xs:sequence>
      <xs:element name="id" type="tns:StrictPatientId"/>
      <xs:element name="visit" type="tns:Visit" minOccurs="0" maxOccurs="unbounded"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="Inpatient">
    <xs:complexContent>
      <xs:extension base="tns:Patient">
        <xs:sequence>
          <xs:element name="ward" type="xs:string"/>
        </xs:sequence>
      </xs:extension>
    </xs:complexContent>
  </xs:complexType>
  <xs:element name="patient" type="tns:Patient"/>
</xs:schema>`

func testImport(t *testing.T, doc string, opts ...Option) (*modelinfo.ModelInfo, error) {
	t.Helper()
	schemas, err := xsd.Parse([]byte(doc))
	require.NoError(t, err)
	var cfg Config
	cfg.Option(LogOutput((*testLogger)(t)))
	cfg.Option(opts...)
	return cfg.Import(schemas[0])
}

func TestImportUseBaseTypePolicy(t *testing.T) {
	model, err := testImport(t, clinicSchema, ModelName("Clinic"))
	require.NoError(t, err)
	assert.Equal(t, "Clinic", model.Name)
	assert.Equal(t, "http://example.org/clinic", model.URL)

	assert.Nil(t, model.Class("Clinic.PatientId"), "restricted simple types are erased by default")
	assert.Nil(t, model.Class("Clinic.StrictPatientId"))

	patient := model.Class("Clinic.Patient")
	require.NotNil(t, patient)
	assert.True(t, patient.Retrievable, "a top-level element declares Patient")
	require.Len(t, patient.Elements, 2)
	assert.Equal(t, "System.String", patient.Elements[0].Type,
		"a two-level restriction chain collapses to the root primitive")
	assert.Equal(t, "Clinic.Visit", patient.Elements[1].Type)
	assert.True(t, patient.Elements[1].Collection)
	assert.True(t, patient.Elements[1].Optional)

	visit := model.Class("Clinic.Visit")
	require.NotNil(t, visit)
	assert.False(t, visit.Retrievable)
	assert.Equal(t, "System.Date", visit.Elements[0].Type)

	inpatient := model.Class("Clinic.Inpatient")
	require.NotNil(t, inpatient)
	assert.Equal(t, "Clinic.Patient", inpatient.BaseType)
}

func TestImportExtendBaseTypePolicy(t *testing.T) {
	model, err := testImport(t, clinicSchema,
		ModelName("Clinic"),
		SimpleTypeRestrictionPolicy(ExtendBaseType),
	)
	require.NoError(t, err)

	id := model.Class("Clinic.PatientId")
	require.NotNil(t, id)
	assert.Equal(t, "System.String", id.BaseType)

	strict := model.Class("Clinic.StrictPatientId")
	require.NotNil(t, strict)
	assert.Equal(t, "Clinic.PatientId", strict.BaseType,
		"the base is the immediate base type, not the root primitive")

	patient := model.Class("Clinic.Patient")
	require.NotNil(t, patient)
	assert.Equal(t, "Clinic.StrictPatientId", patient.Elements[0].Type)
}

func TestImportIgnorePolicy(t *testing.T) {
	model, err := testImport(t, clinicSchema,
		ModelName("Clinic"),
		SimpleTypeRestrictionPolicy(Ignore),
	)
	require.NoError(t, err)

	id := model.Class("Clinic.PatientId")
	require.NotNil(t, id)
	assert.Empty(t, id.BaseType, "IGNORE emits root types with no base reference")
}

func TestImportRetypeErasesClass(t *testing.T) {
	opts, err := LoadOptions([]byte(
		"retype.{http://example.org/clinic}Visit = System.Encounter\n"))
	require.NoError(t, err)

	model, err := testImport(t, clinicSchema, ImportOptions(opts), ModelName("Clinic"))
	require.NoError(t, err)

	assert.Nil(t, model.Class("Clinic.Visit"), "retyped classes are erased")
	patient := model.Class("Clinic.Patient")
	require.NotNil(t, patient)
	assert.Equal(t, "System.Encounter", patient.Elements[1].Type,
		"references to a retyped class are rewritten to the target type")
}

func TestImportRetypeRewritesBaseReferences(t *testing.T) {
	opts, err := LoadOptions([]byte(
		"retype.{http://example.org/clinic}Patient = System.Encounter\n"))
	require.NoError(t, err)

	model, err := testImport(t, clinicSchema, ImportOptions(opts), ModelName("Clinic"))
	require.NoError(t, err)

	assert.Nil(t, model.Class("Clinic.Patient"))
	inpatient := model.Class("Clinic.Inpatient")
	require.NotNil(t, inpatient)
	assert.Equal(t, "System.Encounter", inpatient.BaseType,
		"base slots referencing a retyped class must not dangle")
}

func TestImportExtendRenamesElements(t *testing.T) {
	opts, err := LoadOptions([]byte(`
extend.{http://example.org/clinic}Visit = System.Encounter
extend.{http://example.org/clinic}Visit[date] = period
`))
	require.NoError(t, err)

	model, err := testImport(t, clinicSchema, ImportOptions(opts), ModelName("Clinic"))
	require.NoError(t, err)

	visit := model.Class("Clinic.Visit")
	require.NotNil(t, visit)
	assert.Equal(t, "System.Encounter", visit.BaseType)
	require.Len(t, visit.Elements, 2)
	assert.Equal(t, "period", visit.Elements[0].Name)
	assert.Equal(t, "reason", visit.Elements[1].Name, "unmapped elements keep their name")
}

func TestImportExtendUnknownElement(t *testing.T) {
	opts, err := LoadOptions([]byte(`
extend.{http://example.org/clinic}Visit = System.Encounter
extend.{http://example.org/clinic}Visit[bogus] = period
`))
	require.NoError(t, err)

	_, err = testImport(t, clinicSchema, ImportOptions(opts), ModelName("Clinic"))
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "bogus")
}

func TestImportEmitsBasesFirst(t *testing.T) {
	model, err := testImport(t, clinicSchema, ModelName("Clinic"))
	require.NoError(t, err)

	index := make(map[string]int, len(model.TypeInfos))
	for i, ci := range model.TypeInfos {
		index[ci.Name] = i
	}
	require.Contains(t, index, "Clinic.Patient")
	require.Contains(t, index, "Clinic.Inpatient")
	assert.Less(t, index["Clinic.Patient"], index["Clinic.Inpatient"],
		"a class is emitted after the class it derives from")
}

func TestImportUnreachableMapping(t *testing.T) {
	opts, err := LoadOptions([]byte(
		"retype.{http://example.org/clinic}Nope = System.String\n"))
	require.NoError(t, err)

	_, err = testImport(t, clinicSchema, ImportOptions(opts), ModelName("Clinic"))
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "Nope")
}

func TestImportLabels(t *testing.T) {
	model, err := testImport(t, clinicSchema,
		ModelName("Clinic"),
		NormalizePrefix("Clinic.Pat"),
	)
	require.NoError(t, err)

	patient := model.Class("Clinic.Patient")
	require.NotNil(t, patient)
	assert.Equal(t, "ient", patient.Label)
	assert.Same(t, patient, model.ClassByLabel("ient"))

	visit := model.Class("Clinic.Visit")
	require.NotNil(t, visit)
	assert.Empty(t, visit.Label, "classes outside the prefix get no label")
}

func TestImportLabelCollision(t *testing.T) {
	const otherSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           targetNamespace="http://example.org/other">
  <xs:complexType name="Visit">
    <xs:sequence>
      <xs:element name="start" type="xs:dateTime"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>`

	schemas, err := xsd.Parse([]byte(clinicSchema), []byte(otherSchema))
	require.NoError(t, err)

	var cfg Config
	cfg.Option(LogOutput((*testLogger)(t)))
	cfg.Option(ModelName("Clinic"), NormalizePrefix("Clinic."))

	_, err = cfg.Import(schemas[0], schemas[1])
	require.Error(t, err, "Visit is declared in both namespaces and both normalize to the same label")
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "collides")
}

func TestImportBaseTypeCycle(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           xmlns:tns="urn:x" targetNamespace="urn:x">
  <xs:complexType name="A">
    <xs:complexContent>
      <xs:extension base="tns:B"/>
    </xs:complexContent>
  </xs:complexType>
  <xs:complexType name="B">
    <xs:complexContent>
      <xs:extension base="tns:A"/>
    </xs:complexContent>
  </xs:complexType>
</xs:schema>`

	_, err := testImport(t, doc)
	require.Error(t, err)
	assert.True(t, IsSchema(err))
	assert.Contains(t, err.Error(), "cycle")
}

func TestImportDeterministic(t *testing.T) {
	first, err := testImport(t, clinicSchema, ModelName("Clinic"))
	require.NoError(t, err)
	second, err := testImport(t, clinicSchema, ModelName("Clinic"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestImportWithoutModelName(t *testing.T) {
	model, err := testImport(t, clinicSchema)
	require.NoError(t, err)
	assert.Empty(t, model.Name)
	require.NotNil(t, model.Class("Patient"), "class names are unqualified without a model name")
}
