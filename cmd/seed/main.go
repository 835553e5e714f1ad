package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/hjkwon/paymap-backend/config"
	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/app/repository"
	"github.com/hjkwon/paymap-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// XLSX 컬럼 구성 (첫 행은 헤더):
//
//	0 가맹점명 | 1 주소 | 2 상세주소 | 3 업종 | 4 전화번호 | 5 사업자번호
//	6 제로페이(Y/N) | 7 비플페이(Y/N) | 8 경도 | 9 위도
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> <importer_user_id>")
	}

	filePath := os.Args[1]
	importerID, err := strconv.ParseUint(os.Args[2], 10, 32)
	if err != nil {
		log.Fatal("Invalid importer user ID:", os.Args[2])
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	storeRepo := repository.NewStoreRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	stores, err := readStoresFromXLSX(filePath, uint(importerID))
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	// DB에 이미 있는 가맹점과의 중복은 행 단위로 걸러낸다.
	// 파일 내부 중복은 readStoresFromXLSX에서 이미 제거했다.
	fresh := make([]model.Store, 0, len(stores))
	duplicates := 0
	for _, store := range stores {
		existing, err := storeRepo.FindPossibleDuplicate(store.Name, store.Address)
		if err != nil {
			log.Fatal("Duplicate check failed:", err)
		}
		if existing != nil {
			duplicates++
			continue
		}
		fresh = append(fresh, store)
	}

	fmt.Printf("Total stores to import: %d (skipped %d possible duplicates)\n", len(fresh), duplicates)
	if len(fresh) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 1000
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := storeRepo.BulkCreate(fresh, batchSize); err != nil {
		log.Fatal("Failed to bulk create stores:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total stores imported: %d\n", len(fresh))
}

func readStoresFromXLSX(filePath string, importerID uint) ([]model.Store, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var stores []model.Store
	seenStores := make(map[string]bool) // 파일 내부 중복 제거용
	skippedCount := 0
	invalidCoordCount := 0

	// 첫 행은 헤더이므로 스킵
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 10 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		address := strings.TrimSpace(row[1])
		addressDetail := strings.TrimSpace(row[2])
		category := strings.TrimSpace(row[3])
		phone := strings.TrimSpace(row[4])
		businessNumber := strings.TrimSpace(row[5])
		zeropay := strings.TrimSpace(row[6])
		bipay := strings.TrimSpace(row[7])
		longitudeStr := strings.TrimSpace(row[8])
		latitudeStr := strings.TrimSpace(row[9])

		// 1. 기본 필수 항목 검사
		if name == "" || address == "" {
			skippedCount++
			continue
		}

		// 2. 상호명 품질 검증
		if !isValidStoreName(name) {
			skippedCount++
			continue
		}

		// 3. 좌표 유효성 검증 (둘 다 있어야 지도에 올릴 수 있다)
		lng, errLng := strconv.ParseFloat(longitudeStr, 64)
		lat, errLat := strconv.ParseFloat(latitudeStr, 64)
		if errLng != nil || errLat != nil || lng == 0 || lat == 0 {
			invalidCoordCount++
			skippedCount++
			continue
		}

		// 4. 업종 검증 (모르는 업종은 기타로)
		storeCategory := model.StoreCategory(category)
		known := false
		for _, c := range model.StoreCategories() {
			if c == storeCategory {
				known = true
				break
			}
		}
		if !known {
			storeCategory = model.CategoryEtc
		}

		// 파일 내부 중복 체크 (이름+주소 기준)
		key := fmt.Sprintf("%s|%s", name, address)
		if seenStores[key] {
			skippedCount++
			continue
		}
		seenStores[key] = true

		store := model.Store{
			UserID:           importerID,
			Name:             name,
			Address:          address,
			AddressDetail:    addressDetail,
			Latitude:         lat,
			Longitude:        lng,
			Phone:            phone,
			Category:         storeCategory,
			BusinessNumber:   businessNumber,
			ZeropaySupported: !strings.EqualFold(zeropay, "N"),
			BipaySupported:   !strings.EqualFold(bipay, "N"),
			TrustScore:       model.NeutralTrustScore,
			Status:           model.StatusPending,
			SourceType:       model.SourceExcel,
		}

		stores = append(stores, store)

		if len(stores)%1000 == 0 {
			fmt.Printf("Processed %d stores...\n", len(stores))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid stores: %d\n", len(stores))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with invalid coordinates: %d\n", invalidCoordCount)

	return stores, nil
}

// isValidStoreName은 상호명이 유효한지 검증합니다
func isValidStoreName(name string) bool {
	// 1. 최소 길이 체크 (2글자 미만 제외)
	nameRunes := []rune(name)
	if len(nameRunes) < 2 {
		return false
	}

	// 2. 숫자만 있는 경우 제외
	numOnlyReg := regexp.MustCompile(`^[0-9]+$`)
	if numOnlyReg.MatchString(name) {
		return false
	}

	// 3. 특수문자만 있는 경우 제외 (공백, 구두점, 기호만)
	specialOnlyReg := regexp.MustCompile(`^[\p{P}\p{S}\s]+$`)
	if specialOnlyReg.MatchString(name) {
		return false
	}

	return true
}
