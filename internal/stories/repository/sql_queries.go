package repository

const (
	createStoryQuery = `INSERT INTO stories (audio_url, audio_duration, audio_size, audio_format,
						narrator_name, narrator_age, narrator_community, narrator_language, narrator_consent,
						latitude, longitude, place_name, geohash,
						keywords, status, views, featured)
					VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 0, false)
					RETURNING *`

	getStoryByIDQuery = `SELECT * FROM stories WHERE story_id = $1`

	updateStoryQuery = `UPDATE stories
					SET title = COALESCE($1, title),
					    description = COALESCE($2, description),
					    keywords = COALESCE($3, keywords),
					    category = COALESCE($4, category),
					    status = COALESCE($5, status),
					    featured = COALESCE($6, featured),
					    latitude = COALESCE($7, latitude),
					    longitude = COALESCE($8, longitude),
					    place_name = COALESCE($9, place_name),
					    geohash = COALESCE($10, geohash),
					    updated_at = now()
					WHERE story_id = $11
					RETURNING *`

	publishStoryQuery = `UPDATE stories
					SET transcription = $1,
					    keywords = $2,
					    category = $3,
					    cultural_significance = $4,
					    title = $5,
					    description = $6,
					    status = 'published',
					    published_at = $7,
					    updated_at = now()
					WHERE story_id = $8 AND status != 'archived'`

	setPublicURLQuery = `UPDATE stories SET public_url = $1, updated_at = now() WHERE story_id = $2`

	setQRUrlsQuery = `UPDATE stories
					SET qr_url = COALESCE(NULLIF($1, ''), qr_url),
					    printable_qr_url = COALESCE(NULLIF($2, ''), printable_qr_url),
					    updated_at = now()
					WHERE story_id = $3`

	softDeleteStoryQuery = `UPDATE stories SET status = 'archived', updated_at = now() WHERE story_id = $1`

	getTotalStoriesQuery = `SELECT COUNT(story_id) FROM stories
					WHERE ($1 = '' OR status = $1) AND ($2 = '' OR category = $2)`

	listStoriesQuery = `SELECT * FROM stories
					WHERE ($1 = '' OR status = $1) AND ($2 = '' OR category = $2)
					ORDER BY created_at DESC OFFSET $3 LIMIT $4`

	incrementViewsQuery = `UPDATE stories SET views = views + 1 WHERE story_id = $1`

	findByCellPrefixQuery = `SELECT * FROM stories
					WHERE geohash LIKE $1 || '%' AND status = 'published'
					ORDER BY geohash LIMIT $2`
)
