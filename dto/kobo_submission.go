package dto

// KoboSubmission is one raw form record as returned by the KoboToolbox data
// API. Field names mirror the form tool's JSON keys, including the
// slash-separated metadata keys.
type KoboSubmission struct {
	ID                 int64                  `json:"_id"`
	FormhubUUID        string                 `json:"formhub/uuid"`
	Start              string                 `json:"start"`
	End                string                 `json:"end"`
	DateRecept         string                 `json:"date_recept"`
	Expediteur         string                 `json:"expediteur"`
	Objet              string                 `json:"objet"`
	Reference          string                 `json:"reference"`
	Criticite          string                 `json:"criticite"`
	Destinataire       string                 `json:"destinataire"`
	Action             string                 `json:"action"`
	DateTransfert      string                 `json:"date_transfert"`
	DateEcheance       string                 `json:"date_echeance"`
	AssistanteEnCharge string                 `json:"assistante_en_charge"`
	EmailAssistante    string                 `json:"email_assistante"`
	EmailDestinataire  string                 `json:"email_destinataire"`
	Statut             string                 `json:"statut"`
	DelaisTraitement   interface{}            `json:"delais_traitement"`
	Version            string                 `json:"__version__"`
	InstanceID         string                 `json:"meta/instanceID"`
	XFormIDString      string                 `json:"_xform_id_string"`
	UUID               string                 `json:"_uuid"`
	RootUUID           string                 `json:"meta/rootUuid"`
	Attachments        []interface{}          `json:"_attachments"`
	Status             string                 `json:"_status"`
	ValidationStatus   map[string]interface{} `json:"_validation_status"`
	Geolocation        []interface{}          `json:"_geolocation"`
	SubmissionTime     string                 `json:"_submission_time"`
	Tags               []string               `json:"_tags"`
	Notes              []interface{}          `json:"_notes"`
	SubmittedBy        string                 `json:"_submitted_by"`
}

// KoboDataResponse is the envelope of GET /api/v2/assets/{uid}/data/?format=json.
type KoboDataResponse struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []KoboSubmission `json:"results"`
}
