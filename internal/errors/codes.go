package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨 (로그아웃)
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복
	AuthNicknameExists     = "AUTH_NICKNAME_EXISTS"     // 닉네임 중복

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // 작업 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // 관리자만 가능
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // 등록자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // 범위 초과
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 가맹점 (STORE_) ====================
	StoreNotFound       = "STORE_NOT_FOUND"        // 가맹점 없음
	StoreInvalidStatus  = "STORE_INVALID_STATUS"   // 잘못된 상태값
	StoreDuplicateFound = "STORE_DUPLICATE_FOUND"  // 중복 추정 가맹점 존재
	StoreAddressInvalid = "STORE_ADDRESS_NOT_FOUND" // 주소 좌표 변환 실패

	// ==================== 결제 검증 (VERIFICATION_) ====================
	VerificationNotFound = "VERIFICATION_NOT_FOUND" // 검증 기록 없음

	// ==================== 댓글/후기 (COMMENT_) ====================
	CommentNotFound      = "COMMENT_NOT_FOUND"       // 댓글 없음
	CommentInvalidRating = "COMMENT_INVALID_RATING"  // 잘못된 평점

	// ==================== 통계 (STATS_) ====================
	StatsStale = "STATS_STALE" // 신뢰도 재계산 실패 (기록은 저장됨)

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // 파일 너무 큼
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
