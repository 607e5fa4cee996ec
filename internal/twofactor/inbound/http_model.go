package inbound

type EnrollRequest struct {
	AccountID string `json:"account_id" example:"alice@example.com"`
}

type EnrollResponse struct {
	ProvisioningURI string `json:"provisioning_uri"`
	QRImageBase64   string `json:"qr_image_base64"`
}

func (EnrollResponse) Message() string {
	return "account enrolled successfully"
}

type VerifyRequest struct {
	AccountID string `json:"account_id" example:"alice@example.com"`
	Code      string `json:"code" example:"123456"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}

func (r VerifyResponse) Message() string {
	if r.Valid {
		return "code is valid, access granted"
	}
	return "code is invalid, access denied"
}
