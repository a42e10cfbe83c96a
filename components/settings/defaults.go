package settings

// DefaultSchemas returns the built-in schema of every settings domain in tab order.
func DefaultSchemas() []DomainSchema {
	return []DomainSchema{
		generalSchema(),
		ecommerceSchema(),
		usersSchema(),
		notificationsSchema(),
		paymentsSchema(),
		shippingSchema(),
		seoSchema(),
		systemSchema(),
		localizationSchema(),
	}
}

// DefaultSchema returns the built-in schema for one domain.
func DefaultSchema(domain string) (DomainSchema, bool) {
	for _, schema := range DefaultSchemas() {
		if schema.ID == domain {
			return schema, true
		}
	}
	return DomainSchema{}, false
}

func generalSchema() DomainSchema {
	return domainSchema(DomainGeneral,
		section("site",
			stringField("title", "آی‌شاپ - فروشگاه آنلاین"),
			stringField("tagline", "بهترین محصولات با قیمت مناسب"),
			stringField("description", "فروشگاه آنلاین آی‌شاپ ارائه‌دهنده بهترین محصولات با کیفیت و قیمت مناسب در سراسر ایران"),
			stringField("keywords", "فروشگاه آنلاین، خرید، آی‌شاپ، محصولات ایرانی"),
		),
		section("contact",
			stringField("address", "تهران، خیابان ولیعصر، پلاک ۱۲۳"),
			stringField("phone", "۰۲۱-۸۸۱۲۳۴۵۶"),
			stringField("email", "info@ishop.ir"),
			stringField("working_hours", "شنبه تا چهارشنبه ۹-۱۷، پنج‌شنبه ۹-۱۳"),
		),
		section("social",
			stringField("instagram", "@ishop_official"),
			stringField("telegram", "@ishop_support"),
			stringField("whatsapp", "09123456789"),
			stringField("website", "https://ishop.ir"),
		),
		section("branding",
			stringField("logo_url", "/logo.png"),
			stringField("favicon_url", "/favicon.ico"),
		),
		section("general",
			stringField("language", "fa"),
			stringField("timezone", "Asia/Tehran"),
			stringField("date_format", "jalali"),
			boolField("maintenance_mode", false),
		),
	)
}

func ecommerceSchema() DomainSchema {
	return domainSchema(DomainEcommerce,
		section("currency",
			stringField("code", "IRR"),
			stringField("symbol", "ریال"),
			stringField("position", "after"),
			stringField("thousands_separator", ","),
			stringField("decimal_separator", "."),
			numberField("decimal_places", 0),
		),
		section("tax",
			boolField("enabled", true),
			numberField("vat_rate", 9),
			boolField("tax_inclusive", true),
			stringField("tax_display", "including"),
			stringField("business_tax_id", ""),
		).toggledBy("enabled"),
		section("orders",
			stringField("prefix", "IS-"),
			numberField("start_number", 1000),
			boolField("auto_complete", false),
			boolField("guest_checkout", true),
			numberField("minimum_order", 50000),
			numberField("maximum_order", 50000000),
		),
		section("inventory",
			boolField("track_quantity", true),
			boolField("allow_backorders", false),
			numberField("low_stock_threshold", 10),
			numberField("out_of_stock_threshold", 0),
			boolField("hide_out_of_stock", false),
		),
		section("pricing",
			boolField("show_prices_to_guests", true),
			stringField("price_display_suffix", ""),
			boolField("sale_price_display", true),
			boolField("bulk_discount_enabled", false),
		),
		section("cart",
			numberField("cart_expiry_minutes", 30),
			boolField("enable_coupons", true),
			numberField("minimum_cart_amount", 50000),
			boolField("cross_sell_enabled", true),
		),
	)
}

func usersSchema() DomainSchema {
	return domainSchema(DomainUsers,
		section("registration",
			boolField("enabled", true),
			boolField("require_email_verification", true),
			boolField("require_phone_verification", false),
			boolField("require_admin_approval", false),
			listField("allowed_domains"),
			listField("blocked_domains", "tempmail.org", "10minutemail.com"),
			boolField("auto_login_after_registration", true),
			boolField("welcome_email", true),
		).toggledBy("enabled"),
		section("authentication",
			numberField("password_min_length", 8),
			boolField("require_uppercase", true),
			boolField("require_lowercase", true),
			boolField("require_numbers", true),
			boolField("require_special_chars", false),
			numberField("password_expiry_days", 0),
			numberField("max_login_attempts", 5),
			numberField("lockout_duration_minutes", 15),
			boolField("two_factor_auth", false),
			numberField("remember_me_duration", 30),
		),
		section("account",
			listField("profile_fields_required", "first_name", "last_name", "phone"),
			boolField("allow_account_deletion", true),
			numberField("account_deletion_delay_days", 30),
			boolField("data_export_enabled", true),
			boolField("profile_picture_required", false),
			boolField("national_id_required", false),
		),
		section("privacy",
			boolField("show_last_seen", false),
			boolField("show_online_status", false),
			boolField("allow_search_by_email", false),
			boolField("allow_search_by_phone", false),
			numberField("data_retention_days", 2555),
			boolField("cookie_consent_required", true),
		),
		section("roles",
			stringField("default_role", "customer"),
			recordListField("available_roles",
				map[string]any{
					"id":          "customer",
					"name":        "مشتری",
					"description": "کاربر عادی با دسترسی به خرید",
					"permissions": []string{"view_products", "place_orders", "view_profile"},
				},
				map[string]any{
					"id":          "vip",
					"name":        "مشتری VIP",
					"description": "مشتری ویژه با تخفیف‌های اضافی",
					"permissions": []string{"view_products", "place_orders", "view_profile", "vip_discounts"},
				},
				map[string]any{
					"id":          "wholesale",
					"name":        "عمده فروش",
					"description": "خریدار عمده با قیمت‌های ویژه",
					"permissions": []string{"view_products", "place_orders", "view_profile", "wholesale_prices"},
				},
			),
		),
	)
}

const (
	orderConfirmationBody = `سلام {customer_name} عزیز،

سفارش شما با شماره {order_number} با موفقیت در سیستم ثبت شد.

جزئیات سفارش:
- تاریخ ثبت: {order_date}
- مبلغ کل: {order_total} تومان
- وضعیت: {order_status}

لینک پیگیری سفارش: {tracking_url}

با تشکر،
تیم آی‌شاپ`

	welcomeEmailBody = `سلام {customer_name} عزیز،

به خانواده بزرگ آی‌شاپ خوش آمدید!

با عضویت در آی‌شاپ، شما می‌توانید:
- از جدیدترین محصولات با کیفیت بهره‌مند شوید
- از تخفیف‌های ویژه اطلاع یابید
- از خدمات پس از فروش استفاده کنید

لینک پروفایل شما: {profile_url}

موفق باشید،
تیم آی‌شاپ`
)

func notificationsSchema() DomainSchema {
	return domainSchema(DomainNotifications,
		section("email",
			boolField("enabled", true),
			stringField("smtp_host", "mail.ishop.ir"),
			numberField("smtp_port", 587),
			stringField("smtp_username", "noreply@ishop.ir"),
			stringField("smtp_password", ""),
			stringField("smtp_encryption", "tls"),
			stringField("from_name", "آی‌شاپ"),
			stringField("from_email", "noreply@ishop.ir"),
			stringField("reply_to", "info@ishop.ir"),
			recordListField("templates",
				map[string]any{
					"id":        "order_confirmation",
					"name":      "تایید سفارش",
					"subject":   "سفارش شما با موفقیت ثبت شد - شماره {order_number}",
					"body":      orderConfirmationBody,
					"variables": []string{"customer_name", "order_number", "order_date", "order_total", "order_status", "tracking_url"},
				},
				map[string]any{
					"id":        "welcome_email",
					"name":      "خوشامدگویی",
					"subject":   "به آی‌شاپ خوش آمدید!",
					"body":      welcomeEmailBody,
					"variables": []string{"customer_name", "profile_url"},
				},
			),
		).toggledBy("enabled"),
		section("sms",
			boolField("enabled", true),
			stringField("provider", "kavenegar"),
			stringField("api_key", ""),
			stringField("sender_number", "10008663"),
			boolField("test_mode", false),
			recordListField("templates",
				map[string]any{
					"id":        "order_status_sms",
					"name":      "وضعیت سفارش",
					"message":   "آی‌شاپ: سفارش {order_number} به مرحله {status} رسید. پیگیری: {short_url}",
					"variables": []string{"order_number", "status", "short_url"},
				},
				map[string]any{
					"id":        "verification_sms",
					"name":      "کد تایید",
					"message":   "آی‌شاپ: کد تایید شما {verification_code} می‌باشد. این کد تا ۵ دقیقه معتبر است.",
					"variables": []string{"verification_code"},
				},
			),
		).toggledBy("enabled"),
		section("push",
			boolField("enabled", false),
			stringField("firebase_server_key", ""),
			stringField("firebase_sender_id", ""),
			stringField("web_push_certificate", ""),
			stringField("default_icon", "/icon-192x192.png"),
		).toggledBy("enabled"),
		section("triggers",
			boolField("order_placed", true),
			boolField("order_confirmed", true),
			boolField("order_shipped", true),
			boolField("order_delivered", true),
			boolField("order_cancelled", true),
			boolField("payment_received", true),
			boolField("payment_failed", true),
			boolField("low_stock", true),
			boolField("new_user_registration", true),
			boolField("password_reset", true),
			boolField("account_verification", true),
		),
	)
}

func gateway(id, name string, enabled bool, fee float64, maximum float64, description string, cards ...string) map[string]any {
	return map[string]any{
		"id":                   id,
		"name":                 name,
		"logo":                 "/gateways/" + id + ".png",
		"enabled":              enabled,
		"test_mode":            !enabled,
		"merchant_id":          "",
		"api_key":              "",
		"callback_url":         "https://ishop.ir/payment/callback/" + id,
		"transaction_fee_type": "percentage",
		"transaction_fee":      fee,
		"minimum_amount":       1000,
		"maximum_amount":       maximum,
		"supported_cards":      cards,
		"processing_time":      "فوری",
		"description":          description,
	}
}

func paymentsSchema() DomainSchema {
	return domainSchema(DomainPayments,
		section("processing",
			stringField("default_gateway", "zarinpal"),
			stringField("currency", "IRT"),
			boolField("auto_capture", true),
			numberField("payment_timeout_minutes", 15),
			boolField("retry_failed_payments", true),
			numberField("max_retry_attempts", 3),
			boolField("store_cards", false),
			boolField("require_cvv", true),
			boolField("send_payment_notifications", true),
			boolField("refund_processing", true),
		),
		section("gateways",
			recordListField("items",
				gateway("zarinpal", "زرین‌پال", true, 1.5, 500000000,
					"محبوب‌ترین درگاه پرداخت ایران با پشتیبانی از همه بانک‌ها",
					"ملت", "صادرات", "ملی", "پارسیان", "پاسارگاد", "سامان", "تجارت", "اقتصاد نوین"),
				gateway("payping", "پی‌پینگ", false, 2.0, 100000000,
					"درگاه پرداخت مدرن با رابط کاربری ساده",
					"ملت", "صادرات", "پارسیان", "پاسارگاد", "سامان"),
				gateway("idpay", "آیدی‌پی", false, 1.8, 50000000,
					"درگاه پرداخت امن با کمیسیون مناسب",
					"ملی", "صادرات", "تجارت", "اقتصاد نوین", "قوامین"),
				gateway("nextpay", "نکست‌پی", false, 2.5, 20000000,
					"درگاه پرداخت سریع و مطمئن",
					"ملت", "پارسیان", "پاسارگاد", "سامان"),
				gateway("zibal", "زیبال", false, 1.7, 500000000,
					"درگاه پرداخت با امکانات پیشرفته",
					"ملت", "صادرات", "ملی", "پارسیان", "سامان", "تجارت"),
			),
		),
	)
}

func shippingMethod(id, name, kind string, cost, freeThreshold float64, delivery string, maxWeight float64, description string) map[string]any {
	return map[string]any{
		"id":                      id,
		"name":                    name,
		"type":                    kind,
		"cost":                    cost,
		"free_shipping_threshold": freeThreshold,
		"estimated_delivery":      delivery,
		"max_weight":              maxWeight,
		"description":             description,
		"enabled":                 true,
	}
}

func courier(id, name, baseURL string, pricePerKg, minCost, maxWeight float64, areas ...string) map[string]any {
	return map[string]any{
		"id":             id,
		"name":           name,
		"api_key":        "",
		"base_url":       baseURL,
		"enabled":        false,
		"coverage_areas": areas,
		"price_per_kg":   pricePerKg,
		"min_cost":       minCost,
		"max_weight":     maxWeight,
	}
}

func shippingSchema() DomainSchema {
	return domainSchema(DomainShipping,
		section("general",
			stringField("default_weight_unit", "kg"),
			stringField("default_dimensions_unit", "cm"),
			boolField("calculate_taxes", false),
			boolField("hide_shipping_until_address", true),
			boolField("enable_shipping_calculator", true),
		),
		section("packaging",
			numberField("default_length", 20),
			numberField("default_width", 15),
			numberField("default_height", 10),
			numberField("default_weight", 0.5),
			numberField("packaging_cost", 5000),
		),
		section("zones",
			recordListField("items",
				map[string]any{
					"id":        "tehran",
					"name":      "تهران و حومه",
					"provinces": []string{"تهران"},
					"methods": []map[string]any{
						shippingMethod("tehran_express", "پیک موتوری (همان روز)", "flat_rate", 25000, 500000, "2-4 ساعت", 10, "ارسال سریع در تهران"),
						shippingMethod("tehran_standard", "پست پیشتاز", "weight_based", 15000, 300000, "1-2 روز کاری", 20, "ارسال معمولی در تهران"),
					},
				},
				map[string]any{
					"id":        "major_cities",
					"name":      "شهرهای بزرگ",
					"provinces": []string{"اصفهان", "مشهد", "شیراز", "تبریز", "کرج", "اهواز"},
					"methods": []map[string]any{
						shippingMethod("major_express", "پست پیشتاز", "weight_based", 20000, 400000, "2-3 روز کاری", 25, "ارسال به شهرهای بزرگ"),
						shippingMethod("major_standard", "پست معمولی", "flat_rate", 12000, 250000, "3-5 روز کاری", 20, "ارسال اقتصادی"),
					},
				},
				map[string]any{
					"id":        "other_cities",
					"name":      "سایر شهرها",
					"provinces": []string{"سایر استان‌ها"},
					"methods": []map[string]any{
						shippingMethod("other_standard", "پست معمولی", "weight_based", 18000, 350000, "4-7 روز کاری", 20, "ارسال به سایر نقاط کشور"),
						shippingMethod("other_cod", "پست کالا (پرداخت در محل)", "cod", 25000, 0, "5-8 روز کاری", 15, "پرداخت هنگام تحویل"),
					},
				},
			),
		),
		section("courier_services",
			recordListField("items",
				courier("post_iran", "پست جمهوری اسلامی ایران", "https://api.post.ir", 8000, 12000, 30, "سراسر کشور"),
				courier("tipax", "تیپاکس", "https://api.tipax.ir", 12000, 18000, 20, "شهرهای بزرگ"),
				courier("chapar", "چاپار", "https://api.chapar.post", 15000, 20000, 25, "تهران", "کرج", "اصفهان", "مشهد"),
			),
		),
	)
}

func seoSchema() DomainSchema {
	return domainSchema(DomainSEO,
		section("meta",
			stringField("site_title_template", "{title} | آی‌شاپ - فروشگاه آنلاین"),
			stringField("meta_description_template", "{description} خرید آنلاین با بهترین قیمت از فروشگاه آی‌شاپ"),
			stringField("meta_keywords", "فروشگاه آنلاین، خرید اینترنتی، آی‌شاپ، محصولات ایرانی"),
			stringField("robots_txt", "User-agent: *\nAllow: /\nSitemap: https://ishop.ir/sitemap.xml"),
			boolField("sitemap_enabled", true),
			boolField("breadcrumbs_enabled", true),
		),
		section("social",
			stringField("og_site_name", "آی‌شاپ"),
			stringField("og_image_default", "/images/og-default.jpg"),
			stringField("twitter_card_type", "summary_large_image"),
			stringField("twitter_site", "@ishop_ir"),
			stringField("facebook_app_id", ""),
			stringField("google_site_verification", ""),
		),
		section("analytics",
			stringField("google_analytics_id", ""),
			stringField("google_tag_manager_id", ""),
			stringField("facebook_pixel_id", ""),
			stringField("google_ads_conversion_id", ""),
			stringField("custom_tracking_code", ""),
		),
		section("schema",
			boolField("organization_enabled", true),
			boolField("local_business_enabled", true),
			boolField("product_schema_enabled", true),
			boolField("review_schema_enabled", true),
		),
		section("email_marketing",
			boolField("newsletter_enabled", true),
			boolField("double_opt_in", true),
			boolField("welcome_series_enabled", true),
			boolField("abandoned_cart_enabled", true),
			numberField("abandoned_cart_delay_hours", 24),
			boolField("segmentation_enabled", false),
		).toggledBy("newsletter_enabled"),
		section("promotions",
			boolField("popup_enabled", true),
			numberField("popup_delay_seconds", 30),
			boolField("exit_intent_popup", true),
			boolField("discount_codes_enabled", true),
			boolField("referral_program_enabled", false),
			boolField("loyalty_points_enabled", true),
		).toggledBy("popup_enabled", "popup_delay_seconds", "exit_intent_popup"),
		section("banners",
			boolField("top_banner_enabled", false),
			stringField("top_banner_text", "تخفیف ۲۰٪ برای اولین خرید - کد: WELCOME20"),
			stringField("top_banner_link", "/offers"),
			boolField("homepage_banner_enabled", true),
			boolField("category_banners_enabled", true),
		).toggledBy("top_banner_enabled", "top_banner_text", "top_banner_link"),
		section("retargeting",
			boolField("facebook_retargeting", false),
			boolField("google_retargeting", false),
			boolField("instagram_shopping", false),
			boolField("telegram_bot_enabled", false),
			boolField("whatsapp_integration", true),
		),
	)
}

func systemSchema() DomainSchema {
	return domainSchema(DomainSystem,
		section("database",
			boolField("auto_backup", true),
			stringField("backup_frequency", "daily"),
			numberField("backup_retention_days", 30),
			stringField("backup_location", "local"),
			numberField("max_connections", 100),
			numberField("query_timeout", 30),
		).toggledBy("auto_backup", "backup_frequency", "backup_retention_days", "backup_location"),
		section("storage",
			numberField("max_file_size_mb", 50),
			listField("allowed_file_types", "jpg", "jpeg", "png", "gif", "pdf", "doc", "docx"),
			stringField("storage_location", "local"),
			boolField("auto_optimize_images", true),
			numberField("max_storage_gb", 100),
			boolField("cleanup_temp_files", true),
		),
		section("security",
			boolField("ssl_enabled", true),
			boolField("force_https", true),
			boolField("security_headers", true),
			boolField("csrf_protection", true),
			boolField("rate_limiting", true),
			numberField("max_requests_per_minute", 60),
			listField("ip_whitelist"),
			listField("ip_blacklist"),
			boolField("two_factor_admin", false),
		).toggledBy("rate_limiting", "max_requests_per_minute"),
		section("performance",
			boolField("enable_caching", true),
			stringField("cache_type", "redis"),
			numberField("cache_ttl_minutes", 60),
			boolField("enable_compression", true),
			boolField("minify_assets", true),
			boolField("cdn_enabled", false),
			boolField("lazy_loading", true),
		).toggledBy("enable_caching", "cache_type", "cache_ttl_minutes"),
		section("monitoring",
			boolField("error_logging", true),
			boolField("access_logging", false),
			boolField("performance_monitoring", true),
			boolField("uptime_monitoring", false),
			boolField("email_alerts", true),
			stringField("alert_email", "admin@ishop.ir"),
			numberField("log_retention_days", 90),
		).toggledBy("email_alerts", "alert_email"),
		section("api",
			boolField("api_enabled", true),
			numberField("api_rate_limit", 100),
			boolField("api_key_required", true),
			stringField("api_version", "v1"),
			boolField("webhook_enabled", false),
			listField("allowed_origins", "https://ishop.ir"),
		).toggledBy("api_enabled"),
	)
}

func localizationSchema() DomainSchema {
	return domainSchema(DomainLocalization,
		section("language",
			stringField("default_language", "fa"),
			listField("available_languages", "fa", "en"),
			listField("rtl_languages", "fa", "ar", "he"),
			boolField("auto_detect_language", false),
			stringField("fallback_language", "fa"),
			boolField("language_switcher_enabled", true),
		),
		section("calendar",
			stringField("default_calendar", "jalali"),
			stringField("date_format", "YYYY/MM/DD"),
			stringField("time_format", "24h"),
			numberField("first_day_of_week", 6),
			boolField("show_holidays", true),
			boolField("persian_holidays", true),
		).toggledBy("show_holidays", "persian_holidays"),
		section("numbers",
			stringField("number_system", "persian"),
			stringField("currency_format", "### ریال"),
			stringField("decimal_separator", "."),
			stringField("thousands_separator", ","),
			boolField("show_currency_symbol", true),
		),
		section("regional",
			stringField("timezone", "Asia/Tehran"),
			stringField("country", "IR"),
			stringField("region", "Fars"),
			stringField("postal_code_format", "##########"),
			stringField("phone_number_format", "09#########"),
			stringField("address_format", "{address}, {city}, {province}, {postal_code}"),
		),
		section("fonts",
			stringField("primary_font", "Vazirmatn"),
			stringField("secondary_font", "IRANSans"),
			numberField("font_size_base", 14),
			numberField("line_height", 1.6),
			numberField("letter_spacing", 0),
			boolField("enable_web_fonts", true),
		),
		section("content",
			stringField("text_direction", "rtl"),
			stringField("content_alignment", "right"),
			boolField("enable_translation", false),
			stringField("translation_provider", "none"),
			boolField("auto_translate_products", false),
		).toggledBy("enable_translation", "translation_provider", "auto_translate_products"),
	)
}

func domainSchema(id string, sections ...SectionSpec) DomainSchema {
	return DomainSchema{ID: id, Version: 1, Sections: sections}
}

func section(name string, fields ...FieldSpec) SectionSpec {
	return SectionSpec{Name: name, Fields: fields}
}

func (s SectionSpec) toggledBy(toggle string, gated ...string) SectionSpec {
	s.Toggle = toggle
	s.Gated = gated
	return s
}

func boolField(name string, value bool) FieldSpec {
	return FieldSpec{Name: name, Kind: KindBool, Default: value}
}

func numberField(name string, value float64) FieldSpec {
	return FieldSpec{Name: name, Kind: KindNumber, Default: value}
}

func stringField(name, value string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindString, Default: value}
}

func listField(name string, values ...string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindStringList, Default: append([]string{}, values...)}
}

func recordListField(name string, items ...map[string]any) FieldSpec {
	return FieldSpec{Name: name, Kind: KindRecordList, Default: items}
}
